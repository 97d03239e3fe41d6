package schedule

import "errors"

var (
	// Work Schedule Errors
	ErrWorkScheduleNotFound = errors.New("work schedule not found")
	ErrUnknownScheduleKind  = errors.New("unknown work schedule kind")
	ErrInvalidTimeConfig    = errors.New("invalid work schedule time configuration")

	// Schedule Assignment Errors
	ErrScheduleAssignmentNotFound = errors.New("schedule assignment not found")

	// Holiday Errors
	ErrHolidayNotFound = errors.New("holiday not found")
)
