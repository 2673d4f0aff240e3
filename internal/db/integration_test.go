package db_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nrunyard/cma-ma-enrollment/internal/db"
	"github.com/nrunyard/cma-ma-enrollment/internal/logging"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	embedsql "github.com/nrunyard/cma-ma-enrollment/internal/sql"
)

const (
	testPort     = 15433
	testDB       = "scctest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

// TestMain starts an embedded Postgres when SCC_DB_TEST is set;
// otherwise every test in this package is skipped.
func TestMain(m *testing.M) {
	if os.Getenv("SCC_DB_TEST") == "" {
		fmt.Fprintln(os.Stderr, "SKIP: set SCC_DB_TEST=1 to run database integration tests")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS enrollment CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	log := logging.Setup("text")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func strp(s string) *string { return &s }

func fixtureRows() []model.Row {
	v1, v2 := 1500.0, 5.0
	return []model.Row{
		{
			Period:             "2024-01",
			State:              strp("CA"),
			County:             strp("Orange"),
			ContractID:         strp("H1001"),
			ParentOrganization: strp("Acme Group"),
			Enrollment:         &v1,
		},
		{Period: "2024-01", State: strp("CA"), County: strp("Alpine"), Enrollment: &v2},
		{Period: "2024-02", State: strp("CA"), County: strp("Orange"), ContractID: strp("H1001"), Enrollment: &v1},
	}
}

func TestLoadSnapshot(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	n, err := db.LoadSnapshot(ctx, pool, log, fixtureRows())
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if n != 3 {
		t.Fatalf("loaded %d rows, want 3", n)
	}

	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM enrollment.observations").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("table has %d rows", count)
	}

	var parent *string
	if err := pool.QueryRow(ctx,
		"SELECT parent_organization FROM enrollment.observations WHERE report_period='2024-01' AND county='Orange'").
		Scan(&parent); err != nil {
		t.Fatalf("select: %v", err)
	}
	if parent == nil || *parent != "Acme Group" {
		t.Errorf("parent = %v", parent)
	}
}

func TestLoadSnapshot_ReplacesPeriod(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	if _, err := db.LoadSnapshot(ctx, pool, log, fixtureRows()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	// Re-ingest the same snapshot; each period is replaced, not
	// appended.
	if _, err := db.LoadSnapshot(ctx, pool, log, fixtureRows()); err != nil {
		t.Fatalf("second load: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM enrollment.observations").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("re-ingest doubled the table: %d rows", count)
	}
}

func TestPeriodTotalsQuery(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()

	if _, err := db.LoadSnapshot(ctx, pool, logging.Setup("text"), fixtureRows()); err != nil {
		t.Fatalf("load: %v", err)
	}

	rows, err := pool.Query(ctx, embedsql.PeriodTotals)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	type total struct {
		period string
		sum    float64
		rows   int64
	}
	var got []total
	for rows.Next() {
		var tt total
		if err := rows.Scan(&tt.period, &tt.sum, &tt.rows); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, tt)
	}
	if len(got) != 2 {
		t.Fatalf("totals = %+v", got)
	}
	if got[0].period != "2024-01" || got[0].sum != 1505 || got[0].rows != 2 {
		t.Errorf("january totals = %+v", got[0])
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	if err := db.ApplyMigrations(ctx, pool, logging.Setup("text")); err != nil {
		t.Fatalf("second apply: %v", err)
	}
}
