package sql

import "embed"

// Migrations holds the schema migration files, applied in name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/delete_period.sql
var DeletePeriod string

//go:embed queries/period_totals.sql
var PeriodTotals string
