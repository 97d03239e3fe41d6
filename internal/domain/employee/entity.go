package employee

import (
	"time"
)

type Employee struct {
	ID               string
	CompanyID        string
	BranchID         *string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	// Timezone comes from the employee's branch; empty means UTC.
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// WorkLocationID is the scope used for location-bound holidays.
func (e Employee) WorkLocationID() *string {
	return e.BranchID
}

// Location loads the employee's timezone, falling back to UTC.
func (e Employee) Location() *time.Location {
	if e.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
