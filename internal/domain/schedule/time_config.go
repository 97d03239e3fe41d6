package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On places the time of day on the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, t.Hour(), t.Minute(), 0, 0, d.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) valid() bool {
	return t >= 0 && t < 24*60
}

// TimeConfig is the per-kind time configuration of a WorkSchedule.
// Implemented by FixedConfig, FlexibleConfig, ShiftingConfig and CompressedConfig.
type TimeConfig interface {
	Kind() Kind
	Days() DayPolicy
	Validate() error
}

type BreakConfig struct {
	Start           *TimeOfDay `json:"start,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

// DayPolicy holds the day-level settings shared by every kind.
// WorkDays uses ISO weekdays: 1=Monday ... 7=Sunday.
type DayPolicy struct {
	WorkDays        []int      `json:"work_days,omitempty"`
	HalfDaySaturday bool       `json:"half_day_saturday,omitempty"`
	HalfDayEnd      *TimeOfDay `json:"half_day_end,omitempty"`
	HoursPerDay     *float64   `json:"hours_per_day,omitempty"`
}

func (p DayPolicy) Days() DayPolicy { return p }

type FixedConfig struct {
	DayPolicy
	Start TimeOfDay    `json:"start"`
	End   TimeOfDay    `json:"end"`
	Break *BreakConfig `json:"break,omitempty"`
}

func (FixedConfig) Kind() Kind { return KindFixed }

func (c FixedConfig) Validate() error {
	if !c.Start.valid() || !c.End.valid() {
		return fmt.Errorf("%w: start and end must be valid times", ErrInvalidTimeConfig)
	}
	if err := validateBreak(c.Break); err != nil {
		return err
	}
	return c.DayPolicy.validate()
}

// FlexibleConfig allows arrival anywhere in [Start, End]; attendance is
// judged against the core window.
type FlexibleConfig struct {
	DayPolicy
	Start     TimeOfDay    `json:"start"`
	End       TimeOfDay    `json:"end"`
	CoreStart TimeOfDay    `json:"core_start"`
	CoreEnd   TimeOfDay    `json:"core_end"`
	Break     *BreakConfig `json:"break,omitempty"`
}

func (FlexibleConfig) Kind() Kind { return KindFlexible }

func (c FlexibleConfig) Validate() error {
	if !c.Start.valid() || !c.End.valid() || !c.CoreStart.valid() || !c.CoreEnd.valid() {
		return fmt.Errorf("%w: flexible times must be valid", ErrInvalidTimeConfig)
	}
	if c.End > c.Start {
		if c.CoreStart < c.Start || c.CoreEnd > c.End || c.CoreEnd <= c.CoreStart {
			return fmt.Errorf("%w: core hours %s-%s must sit inside %s-%s",
				ErrInvalidTimeConfig, c.CoreStart, c.CoreEnd, c.Start, c.End)
		}
	}
	if err := validateBreak(c.Break); err != nil {
		return err
	}
	return c.DayPolicy.validate()
}

type Shift struct {
	Name  string       `json:"name"`
	Start TimeOfDay    `json:"start"`
	End   TimeOfDay    `json:"end"`
	Break *BreakConfig `json:"break,omitempty"`
}

type ShiftingConfig struct {
	DayPolicy
	Shifts []Shift `json:"shifts"`
}

func (ShiftingConfig) Kind() Kind { return KindShifting }

func (c ShiftingConfig) Validate() error {
	if len(c.Shifts) == 0 {
		return fmt.Errorf("%w: shifting schedule needs at least one shift", ErrInvalidTimeConfig)
	}
	seen := make(map[string]bool, len(c.Shifts))
	for _, s := range c.Shifts {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			return fmt.Errorf("%w: shift name is required", ErrInvalidTimeConfig)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate shift %q", ErrInvalidTimeConfig, s.Name)
		}
		seen[name] = true
		if !s.Start.valid() || !s.End.valid() {
			return fmt.Errorf("%w: shift %q has invalid times", ErrInvalidTimeConfig, s.Name)
		}
		if err := validateBreak(s.Break); err != nil {
			return err
		}
	}
	return c.DayPolicy.validate()
}

// Shift looks a shift up by name, case-insensitively. An empty name selects
// the first configured shift.
func (c ShiftingConfig) Shift(name string) (Shift, bool) {
	if len(c.Shifts) == 0 {
		return Shift{}, false
	}
	if strings.TrimSpace(name) == "" {
		return c.Shifts[0], true
	}
	for _, s := range c.Shifts {
		if strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Shift{}, false
}

// CompressedHalfDay shortens one weekday of a compressed week.
type CompressedHalfDay struct {
	Weekday int     `json:"weekday"`
	Hours   float64 `json:"hours"`
}

type CompressedConfig struct {
	DayPolicy
	Start   TimeOfDay          `json:"start"`
	End     TimeOfDay          `json:"end"`
	Break   *BreakConfig       `json:"break,omitempty"`
	HalfDay *CompressedHalfDay `json:"half_day,omitempty"`
}

func (CompressedConfig) Kind() Kind { return KindCompressed }

func (c CompressedConfig) Validate() error {
	if !c.Start.valid() || !c.End.valid() {
		return fmt.Errorf("%w: start and end must be valid times", ErrInvalidTimeConfig)
	}
	if c.HalfDay != nil {
		if c.HalfDay.Weekday < 1 || c.HalfDay.Weekday > 7 {
			return fmt.Errorf("%w: half-day weekday must be 1-7", ErrInvalidTimeConfig)
		}
		if c.HalfDay.Hours <= 0 {
			return fmt.Errorf("%w: half-day hours must be positive", ErrInvalidTimeConfig)
		}
	}
	if err := validateBreak(c.Break); err != nil {
		return err
	}
	return c.DayPolicy.validate()
}

func validateBreak(b *BreakConfig) error {
	if b == nil {
		return nil
	}
	if b.DurationMinutes < 0 {
		return fmt.Errorf("%w: break duration must not be negative", ErrInvalidTimeConfig)
	}
	if b.Start != nil && !b.Start.valid() {
		return fmt.Errorf("%w: invalid break start", ErrInvalidTimeConfig)
	}
	return nil
}

func (p DayPolicy) validate() error {
	for _, d := range p.WorkDays {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: work day %d out of range 1-7", ErrInvalidTimeConfig, d)
		}
	}
	if p.HoursPerDay != nil && *p.HoursPerDay <= 0 {
		return fmt.Errorf("%w: hours per day must be positive", ErrInvalidTimeConfig)
	}
	if p.HalfDayEnd != nil && !p.HalfDayEnd.valid() {
		return fmt.Errorf("%w: invalid half-day end", ErrInvalidTimeConfig)
	}
	return nil
}

// DecodeTimeConfig decodes the JSON time configuration stored for a schedule
// of the given kind and validates it.
func DecodeTimeConfig(kind Kind, raw []byte) (TimeConfig, error) {
	var cfg TimeConfig
	switch kind {
	case KindFixed:
		var c FixedConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeConfig, err)
		}
		cfg = c
	case KindFlexible:
		var c FlexibleConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeConfig, err)
		}
		cfg = c
	case KindShifting:
		var c ShiftingConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeConfig, err)
		}
		cfg = c
	case KindCompressed:
		var c CompressedConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeConfig, err)
		}
		cfg = c
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheduleKind, kind)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ISOWeekday maps time.Weekday onto 1=Monday ... 7=Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
