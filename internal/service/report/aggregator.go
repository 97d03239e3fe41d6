package report

import (
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// PeriodAggregator folds daily time records into period totals.
type PeriodAggregator struct{}

func (PeriodAggregator) Aggregate(records []attendance.DailyTimeRecord) report.PeriodTotals {
	var totals report.PeriodTotals
	totals.Days = len(records)

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			totals.Status.Present++
		case attendance.StatusAbsent:
			totals.Status.Absent++
		case attendance.StatusHoliday:
			totals.Status.Holiday++
		case attendance.StatusRestDay:
			totals.Status.RestDay++
		case attendance.StatusNoSchedule:
			totals.Status.NoSchedule++
		}

		if r.LateMinutes > 0 {
			totals.DaysLate++
		}
		if r.NeedsReview {
			totals.DaysNeedingReview++
		}

		totals.Minutes.Required += r.RequiredMinutes
		totals.Minutes.Work += r.TotalWorkMinutes
		totals.Minutes.Break += r.TotalBreakMinutes
		totals.Minutes.Late += r.LateMinutes
		totals.Minutes.Undertime += r.UndertimeMinutes
		totals.Minutes.Overtime += r.OvertimeMinutes
		if r.OvertimeApproved {
			totals.Minutes.ApprovedOvertime += r.OvertimeMinutes
		}
		totals.Minutes.NightDiff += r.NightDiffMinutes
	}

	totals.Hours = report.HourTotals{
		Required:         toHours(totals.Minutes.Required),
		Work:             toHours(totals.Minutes.Work),
		Late:             toHours(totals.Minutes.Late),
		Undertime:        toHours(totals.Minutes.Undertime),
		Overtime:         toHours(totals.Minutes.Overtime),
		ApprovedOvertime: toHours(totals.Minutes.ApprovedOvertime),
		NightDiff:        toHours(totals.Minutes.NightDiff),
	}

	totals.AttendanceRate = decimal.Zero
	if counted := totals.Status.Present + totals.Status.Absent; counted > 0 {
		totals.AttendanceRate = decimal.NewFromInt(int64(totals.Status.Present)).
			Div(decimal.NewFromInt(int64(counted))).
			Round(4)
	}

	return totals
}

func toHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2)
}
