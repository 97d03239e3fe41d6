package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
)

const defaultRequiredMinutes = 480

// halfDayLength applies when a half-day Saturday has no explicit end time.
const halfDayLength = 4 * time.Hour

type ResolverImpl struct {
	schedule.WorkScheduleRepository
	schedule.ScheduleAssignmentRepository
}

func NewResolver(
	workScheduleRepository schedule.WorkScheduleRepository,
	scheduleAssignmentRepository schedule.ScheduleAssignmentRepository,
) schedule.Resolver {
	return &ResolverImpl{
		WorkScheduleRepository:       workScheduleRepository,
		ScheduleAssignmentRepository: scheduleAssignmentRepository,
	}
}

// Resolve implements schedule.Resolver.
func (r *ResolverImpl) Resolve(ctx context.Context, employeeID string, date time.Time) (schedule.Resolution, error) {
	assignment, err := r.ScheduleAssignmentRepository.GetEffective(ctx, employeeID, date)
	if err != nil {
		return schedule.Resolution{}, fmt.Errorf("failed to get effective schedule assignment: %w", err)
	}
	if assignment == nil {
		return schedule.Resolution{}, nil
	}

	ws, err := r.WorkScheduleRepository.GetByID(ctx, assignment.WorkScheduleID)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			slog.Warn("Schedule assignment points at a missing work schedule",
				"employee_id", employeeID,
				"assignment_id", assignment.ID,
				"work_schedule_id", assignment.WorkScheduleID)
			return schedule.Resolution{}, nil
		}
		return schedule.Resolution{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	return schedule.Resolution{
		Schedule:   &ws,
		Assignment: assignment,
		ShiftName:  assignment.ShiftName,
	}, nil
}

// IsWorkDay implements schedule.Resolver.
func (r *ResolverImpl) IsWorkDay(ws schedule.WorkSchedule, date time.Time) bool {
	days := dayPolicy(ws)
	weekday := schedule.ISOWeekday(date)

	if len(days.WorkDays) > 0 {
		return slices.Contains(days.WorkDays, weekday)
	}
	if _, ok := ws.Config.(schedule.ShiftingConfig); ok {
		return true
	}
	if weekday <= 5 {
		return true
	}
	return weekday == 6 && days.HalfDaySaturday
}

// ScheduledStart implements schedule.Resolver.
func (r *ResolverImpl) ScheduledStart(ws schedule.WorkSchedule, date time.Time, shiftName string) *time.Time {
	start, _, _, ok := span(ws, shiftName)
	if !ok {
		return nil
	}
	t := start.On(date)
	return &t
}

// ScheduledEnd implements schedule.Resolver.
func (r *ResolverImpl) ScheduledEnd(ws schedule.WorkSchedule, date time.Time, shiftName string) *time.Time {
	start, end, crosses, ok := span(ws, shiftName)
	if !ok {
		return nil
	}
	startAt := start.On(date)

	days := dayPolicy(ws)
	if days.HalfDaySaturday && date.Weekday() == time.Saturday {
		if days.HalfDayEnd == nil {
			t := startAt.Add(halfDayLength)
			return &t
		}
		t := days.HalfDayEnd.On(date)
		if !t.After(startAt) {
			t = t.AddDate(0, 0, 1)
		}
		return &t
	}

	t := end.On(date)
	if crosses {
		t = t.AddDate(0, 0, 1)
	}
	return &t
}

// CoreWindow implements schedule.Resolver. Only flexible schedules have core hours.
func (r *ResolverImpl) CoreWindow(ws schedule.WorkSchedule, date time.Time) (*time.Time, *time.Time) {
	cfg, ok := ws.Config.(schedule.FlexibleConfig)
	if !ok {
		return nil, nil
	}

	coreDate := date
	if cfg.End <= cfg.Start && cfg.CoreStart < cfg.Start {
		coreDate = date.AddDate(0, 0, 1)
	}
	start := cfg.CoreStart.On(coreDate)
	end := cfg.CoreEnd.On(coreDate)
	if cfg.CoreEnd <= cfg.CoreStart {
		end = end.AddDate(0, 0, 1)
	}
	return &start, &end
}

// BreakWindow implements schedule.Resolver. Both values are nil unless the
// break has a configured start and a positive duration.
func (r *ResolverImpl) BreakWindow(ws schedule.WorkSchedule, date time.Time, shiftName string) (*time.Time, *time.Time) {
	brk := breakConfig(ws, shiftName)
	if brk == nil || brk.Start == nil || brk.DurationMinutes <= 0 {
		return nil, nil
	}

	start := brk.Start.On(date)
	if schedStart, _, crosses, ok := span(ws, shiftName); ok && crosses && *brk.Start < schedStart {
		start = start.AddDate(0, 0, 1)
	}
	end := start.Add(time.Duration(brk.DurationMinutes) * time.Minute)
	return &start, &end
}

// RequiredWorkMinutes implements schedule.Resolver.
func (r *ResolverImpl) RequiredWorkMinutes(ws schedule.WorkSchedule, date time.Time, shiftName string) int {
	days := dayPolicy(ws)
	if days.HoursPerDay != nil {
		return int(*days.HoursPerDay * 60)
	}

	if cfg, ok := ws.Config.(schedule.CompressedConfig); ok && cfg.HalfDay != nil {
		if schedule.ISOWeekday(date) == cfg.HalfDay.Weekday {
			return int(cfg.HalfDay.Hours * 60)
		}
	}

	start := r.ScheduledStart(ws, date, shiftName)
	end := r.ScheduledEnd(ws, date, shiftName)
	if start == nil || end == nil {
		return defaultRequiredMinutes
	}

	minutes := int(end.Sub(*start) / time.Minute)
	breakStart, _ := r.BreakWindow(ws, date, shiftName)
	if breakStart == nil || breakStart.Before(*end) {
		minutes -= r.BreakDuration(ws, shiftName)
	}
	if minutes <= 0 {
		return defaultRequiredMinutes
	}
	return minutes
}

// BreakDuration implements schedule.Resolver.
func (r *ResolverImpl) BreakDuration(ws schedule.WorkSchedule, shiftName string) int {
	brk := breakConfig(ws, shiftName)
	if brk == nil || brk.DurationMinutes < 0 {
		return 0
	}
	return brk.DurationMinutes
}

func dayPolicy(ws schedule.WorkSchedule) schedule.DayPolicy {
	if ws.Config == nil {
		return schedule.DayPolicy{}
	}
	return ws.Config.Days()
}

// span returns the configured start and end times of day and whether the
// window crosses midnight. Fixed-style schedules cross when end <= start,
// named shifts only when end < start.
func span(ws schedule.WorkSchedule, shiftName string) (start, end schedule.TimeOfDay, crosses bool, ok bool) {
	switch cfg := ws.Config.(type) {
	case schedule.FixedConfig:
		return cfg.Start, cfg.End, cfg.End <= cfg.Start, true
	case schedule.FlexibleConfig:
		return cfg.Start, cfg.End, cfg.End <= cfg.Start, true
	case schedule.CompressedConfig:
		return cfg.Start, cfg.End, cfg.End <= cfg.Start, true
	case schedule.ShiftingConfig:
		shift, found := cfg.Shift(shiftName)
		if !found {
			return 0, 0, false, false
		}
		return shift.Start, shift.End, shift.End < shift.Start, true
	}
	return 0, 0, false, false
}

func breakConfig(ws schedule.WorkSchedule, shiftName string) *schedule.BreakConfig {
	switch cfg := ws.Config.(type) {
	case schedule.FixedConfig:
		return cfg.Break
	case schedule.FlexibleConfig:
		return cfg.Break
	case schedule.CompressedConfig:
		return cfg.Break
	case schedule.ShiftingConfig:
		shift, found := cfg.Shift(shiftName)
		if !found {
			return nil
		}
		return shift.Break
	}
	return nil
}
