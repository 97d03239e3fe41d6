package attendance

import "errors"

// Attendance domain errors
var (
	ErrDailyTimeRecordNotFound = errors.New("daily time record not found")
	ErrInvalidDateRange        = errors.New("end date must not be before start date")
	ErrDateRangeTooLong        = errors.New("date range exceeds the allowed number of days")
)
