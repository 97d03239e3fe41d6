package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/report"
)

// maxSummaryDays bounds a single summary request to roughly one year.
const maxSummaryDays = 366

type ReportServiceImpl struct {
	attendance.DailyTimeRecordRepository
	employee.EmployeeRepository
	aggregator PeriodAggregator
	now        func() time.Time
}

func NewReportService(
	dailyTimeRecordRepository attendance.DailyTimeRecordRepository,
	employeeRepository employee.EmployeeRepository,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		DailyTimeRecordRepository: dailyTimeRecordRepository,
		EmployeeRepository:        employeeRepository,
		now:                       now,
	}
}

// GetPeriodSummary implements report.ReportService.
func (s *ReportServiceImpl) GetPeriodSummary(ctx context.Context, req report.PeriodSummaryRequest) (report.PeriodSummary, error) {
	if err := req.Validate(); err != nil {
		return report.PeriodSummary{}, err
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if int(end.Sub(start)/(24*time.Hour))+1 > maxSummaryDays {
		return report.PeriodSummary{}, report.ErrPeriodTooLong
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return report.PeriodSummary{}, fmt.Errorf("failed to get employee: %w", err)
	}

	records, err := s.DailyTimeRecordRepository.ListByEmployeeBetween(ctx, emp.ID, start, end)
	if err != nil {
		return report.PeriodSummary{}, fmt.Errorf("failed to list daily time records: %w", err)
	}

	return report.PeriodSummary{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		EmployeeName: emp.FullName,
		PeriodStart:  req.StartDate,
		PeriodEnd:    req.EndDate,
		GeneratedAt:  s.now().Format(time.RFC3339),
		PeriodTotals: s.aggregator.Aggregate(records),
	}, nil
}
