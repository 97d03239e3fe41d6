package schedule

import "time"

type WorkSchedule struct {
	ID                 string
	CompanyID          string
	Name               string
	Kind               Kind
	Config             TimeConfig
	GracePeriodMinutes int
	Overtime           OvertimePolicy
	NightDiff          NightDiffPolicy
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Kind string

const (
	KindFixed      Kind = "fixed"
	KindFlexible   Kind = "flexible"
	KindShifting   Kind = "shifting"
	KindCompressed Kind = "compressed"
)

var KindValues = []string{
	string(KindFixed),
	string(KindFlexible),
	string(KindShifting),
	string(KindCompressed),
}

// OvertimePolicy is schedule-level configuration, independent of the time config.
type OvertimePolicy struct {
	DailyThresholdHours float64
}

// ThresholdMinutes returns the daily overtime threshold, defaulting to 8 hours.
func (p OvertimePolicy) ThresholdMinutes() int {
	if p.DailyThresholdHours <= 0 {
		return 8 * 60
	}
	return int(p.DailyThresholdHours * 60)
}

type NightDiffPolicy struct {
	Enabled bool
	Start   *TimeOfDay
	End     *TimeOfDay
}

var (
	DefaultNightDiffStart = TimeOfDay(22 * 60)
	DefaultNightDiffEnd   = TimeOfDay(6 * 60)
)

// Window returns the configured night window, falling back to 22:00-06:00.
func (p NightDiffPolicy) Window() (TimeOfDay, TimeOfDay) {
	start, end := DefaultNightDiffStart, DefaultNightDiffEnd
	if p.Start != nil {
		start = *p.Start
	}
	if p.End != nil {
		end = *p.End
	}
	return start, end
}

type ScheduleAssignment struct {
	ID             string
	EmployeeID     string
	WorkScheduleID string
	ShiftName      *string
	EffectiveDate  time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Covers reports whether date falls inside the assignment's inclusive range.
func (a ScheduleAssignment) Covers(date time.Time) bool {
	d := DateOf(date)
	if d.Before(DateOf(a.EffectiveDate)) {
		return false
	}
	if a.EndDate != nil && d.After(DateOf(*a.EndDate)) {
		return false
	}
	return true
}

type HolidayKind string

const (
	HolidayRegular HolidayKind = "regular"
	HolidaySpecial HolidayKind = "special"
)

type Holiday struct {
	ID             string
	Date           time.Time
	Name           string
	Kind           HolidayKind
	IsNational     bool
	WorkLocationID *string
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
