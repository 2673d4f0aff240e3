// Package schema infers canonical column roles from source-native
// column names and produces normalized period records.
package schema

import (
	"regexp"
	"strings"
)

// Role identifies a canonical column in the normalized table.
type Role string

const (
	RoleState        Role = "STATE"
	RoleCounty       Role = "COUNTY"
	RoleContractID   Role = "CONTRACT_ID"
	RoleContractName Role = "CONTRACT_NAME"
	RoleEnrollment   Role = "ENROLLMENT"
)

// Roles maps each claimed role to the index of the source column that
// provides it. Unclaimed roles are absent.
type Roles map[Role]int

var (
	contractIDPattern   = regexp.MustCompile(`CONTRACT.*(NUMBER|ID|NBR|NUM)`)
	contractNamePattern = regexp.MustCompile(`(CONTRACT|ORG).*(NAME|NM)`)
	enrollmentPattern   = regexp.MustCompile(`ENROLL|MEMBER|BENE`)
)

// rule claims a role for a column name. Rules run in order per column;
// the first match wins and a role is claimed at most once per table.
type rule struct {
	role  Role
	match func(col string) bool
}

var rules = []rule{
	{RoleState, func(c string) bool {
		return strings.Contains(c, "STATE") && !strings.Contains(c, "FIPS")
	}},
	{RoleCounty, func(c string) bool {
		return strings.Contains(c, "COUNTY") && !strings.Contains(c, "FIPS") && !strings.Contains(c, "STATE")
	}},
	{RoleContractID, func(c string) bool {
		return contractIDPattern.MatchString(c)
	}},
	{RoleContractName, func(c string) bool {
		return contractNamePattern.MatchString(c)
	}},
	{RoleEnrollment, func(c string) bool {
		return c == "ENROLLED"
	}},
	{RoleEnrollment, func(c string) bool {
		return enrollmentPattern.MatchString(c) && !strings.Contains(c, "REPORT")
	}},
}

// InferRoles assigns canonical roles to a sequence of canonicalized
// column names. Pure: claims are tracked in a local accumulator, so
// inference order is testable rule by rule. A column named
// REPORT_PERIOD is never claimed (it is the builder's own column).
func InferRoles(columns []string) Roles {
	claimed := make(Roles, len(rules))
	for i, col := range columns {
		if col == "REPORT_PERIOD" {
			continue
		}
		for _, r := range rules {
			if _, taken := claimed[r.role]; taken {
				continue
			}
			if r.match(col) {
				claimed[r.role] = i
				break
			}
		}
	}
	return claimed
}
