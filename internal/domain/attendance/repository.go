package attendance

import (
	"context"
	"time"
)

// ScanEventRepository is the read-only scan source.
type ScanEventRepository interface {
	// ListByEmployeeBetween returns scans with from <= logged_at <= to,
	// ordered by logged_at.
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]ScanEvent, error)
}

// DailyTimeRecordRepository persists computed records.
type DailyTimeRecordRepository interface {
	// Save upserts the record by (employee, date), replaces all of its punch
	// records with punches, and returns the stored record with punches loaded.
	Save(ctx context.Context, record DailyTimeRecord, punches []PunchRecord) (DailyTimeRecord, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*DailyTimeRecord, error)

	// ListByEmployeeBetween returns records for dates in [start, end], ordered by date.
	ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]DailyTimeRecord, error)
}
