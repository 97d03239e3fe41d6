package report

import "github.com/shopspring/decimal"

// StatusCounts counts records per DTR status.
type StatusCounts struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Holiday    int `json:"holiday"`
	RestDay    int `json:"rest_day"`
	NoSchedule int `json:"no_schedule"`
}

type MinuteTotals struct {
	Required         int `json:"required"`
	Work             int `json:"work"`
	Break            int `json:"break"`
	Late             int `json:"late"`
	Undertime        int `json:"undertime"`
	Overtime         int `json:"overtime"`
	ApprovedOvertime int `json:"approved_overtime"`
	NightDiff        int `json:"night_diff"`
}

// HourTotals are MinuteTotals converted to hours, rounded to 2 places.
type HourTotals struct {
	Required         decimal.Decimal `json:"required"`
	Work             decimal.Decimal `json:"work"`
	Late             decimal.Decimal `json:"late"`
	Undertime        decimal.Decimal `json:"undertime"`
	Overtime         decimal.Decimal `json:"overtime"`
	ApprovedOvertime decimal.Decimal `json:"approved_overtime"`
	NightDiff        decimal.Decimal `json:"night_diff"`
}

// PeriodTotals is the aggregate of a set of daily time records.
type PeriodTotals struct {
	Days              int          `json:"days"`
	Status            StatusCounts `json:"status"`
	DaysLate          int          `json:"days_late"`
	DaysNeedingReview int          `json:"days_needing_review"`
	Minutes           MinuteTotals `json:"minutes"`
	Hours             HourTotals   `json:"hours"`
	// AttendanceRate is present / (present + absent), 0 when neither occurs.
	AttendanceRate decimal.Decimal `json:"attendance_rate"`
}
