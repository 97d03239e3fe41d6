package report

import "context"

// ReportService summarizes stored daily time records.
type ReportService interface {
	// GetPeriodSummary aggregates one employee's records over an inclusive date range.
	GetPeriodSummary(ctx context.Context, req PeriodSummaryRequest) (PeriodSummary, error)
}
