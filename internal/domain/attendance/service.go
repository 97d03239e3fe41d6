package attendance

import (
	"context"
	"time"
)

// DTRService computes and serves daily time records.
type DTRService interface {
	// CalculateForDate recomputes and persists the record of one employee on one date.
	CalculateForDate(ctx context.Context, employeeID string, date time.Time) (DailyTimeRecord, error)

	// CalculateForDateRange recomputes every date in [start, end], one day at a time.
	CalculateForDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]DailyTimeRecord, error)

	// Calculate handles the HTTP request form of CalculateForDate.
	Calculate(ctx context.Context, req CalculateRequest) (DailyTimeRecordResponse, error)

	// CalculateRange handles the HTTP request form of CalculateForDateRange.
	CalculateRange(ctx context.Context, req CalculateRangeRequest) ([]DailyTimeRecordResponse, error)

	// ListRecords returns stored records without recomputing them.
	ListRecords(ctx context.Context, filter RecordFilter) ([]DailyTimeRecordResponse, error)
}
