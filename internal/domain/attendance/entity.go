package attendance

import (
	"time"
)

// ScanEvent is a raw badge/biometric scan. It is never modified once recorded.
type ScanEvent struct {
	ID           string
	EmployeeID   string
	LoggedAt     time.Time
	RawDirection *string
}

// Direction normalizes the raw device tag.
func (s ScanEvent) Direction() Direction {
	if s.RawDirection == nil {
		return DirectionUnknown
	}
	return NormalizeDirection(*s.RawDirection)
}

type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusHoliday    Status = "holiday"
	StatusRestDay    Status = "rest_day"
	StatusNoSchedule Status = "no_schedule"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusHoliday),
	string(StatusRestDay),
	string(StatusNoSchedule),
}

type PunchType string

const (
	PunchIn       PunchType = "in"
	PunchOut      PunchType = "out"
	PunchBreakOut PunchType = "break_out"
	PunchBreakIn  PunchType = "break_in"
)

// DailyTimeRecord is the computed attendance of one employee on one calendar
// date. It is replaced in full on every recomputation.
type DailyTimeRecord struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	WorkScheduleID    *string
	ShiftName         *string
	Status            Status
	FirstIn           *time.Time
	LastOut           *time.Time
	RequiredMinutes   int
	TotalWorkMinutes  int
	TotalBreakMinutes int
	LateMinutes       int
	UndertimeMinutes  int
	OvertimeMinutes   int
	OvertimeApproved  bool
	NightDiffMinutes  int
	Remarks           *string
	NeedsReview       bool
	ReviewReason      *string
	ComputedAt        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Punches []PunchRecord
}

// PunchRecord is a scan that took part in a pair, with its resolved type.
type PunchRecord struct {
	ID                string
	DailyTimeRecordID string
	ScanEventID       string
	PunchType         PunchType
	PunchedAt         time.Time
}
