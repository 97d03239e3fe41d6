package schedule

import (
	"context"
	"time"
)

// Resolution is the outcome of resolving an employee's schedule for a date.
// Schedule and Assignment are nil when no schedule applies.
type Resolution struct {
	Schedule   *WorkSchedule
	Assignment *ScheduleAssignment
	ShiftName  *string
}

func (r Resolution) Found() bool {
	return r.Schedule != nil
}

// Shift returns the shift name or "" when none is assigned.
func (r Resolution) Shift() string {
	if r.ShiftName == nil {
		return ""
	}
	return *r.ShiftName
}

// Resolver answers schedule questions for a concrete employee and date.
type Resolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (Resolution, error)
	IsWorkDay(ws WorkSchedule, date time.Time) bool
	ScheduledStart(ws WorkSchedule, date time.Time, shiftName string) *time.Time
	ScheduledEnd(ws WorkSchedule, date time.Time, shiftName string) *time.Time
	CoreWindow(ws WorkSchedule, date time.Time) (start, end *time.Time)
	BreakWindow(ws WorkSchedule, date time.Time, shiftName string) (start, end *time.Time)
	RequiredWorkMinutes(ws WorkSchedule, date time.Time, shiftName string) int
	BreakDuration(ws WorkSchedule, shiftName string) int
}
