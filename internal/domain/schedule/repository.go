package schedule

import (
	"context"
	"time"
)

type WorkScheduleRepository interface {
	// GetByID returns the schedule with its decoded time configuration.
	GetByID(ctx context.Context, id string) (WorkSchedule, error)
}

type ScheduleAssignmentRepository interface {
	// GetEffective returns the assignment with the latest effective date not
	// after date whose range covers date, or nil when there is none.
	GetEffective(ctx context.Context, employeeID string, date time.Time) (*ScheduleAssignment, error)
}

type HolidayRepository interface {
	// FindForDate returns a national holiday on date, or one scoped to
	// workLocationID, or nil. Regular holidays win over special ones.
	FindForDate(ctx context.Context, date time.Time, workLocationID *string) (*Holiday, error)
}
