package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
)

// TimeCalculator derives late, undertime, overtime and night differential
// minutes. Every result is non-negative.
type TimeCalculator struct {
	resolver schedule.Resolver
}

func NewTimeCalculator(resolver schedule.Resolver) *TimeCalculator {
	return &TimeCalculator{resolver: resolver}
}

// Late measures firstIn against the scheduled start, or the core start for
// flexible schedules. Lateness inside the grace period counts as zero.
func (c *TimeCalculator) Late(firstIn *time.Time, ws schedule.WorkSchedule, date time.Time, shiftName string) int {
	if firstIn == nil {
		return 0
	}

	start := c.resolver.ScheduledStart(ws, date, shiftName)
	if coreStart, _ := c.resolver.CoreWindow(ws, date); coreStart != nil {
		start = coreStart
	}
	if start == nil {
		return 0
	}

	late := max(0, minutesBetween(*start, *firstIn))
	if late <= ws.GracePeriodMinutes {
		return 0
	}
	return late
}

// Undertime measures how early lastOut is against the scheduled end, or the
// core end for flexible schedules.
func (c *TimeCalculator) Undertime(lastOut *time.Time, ws schedule.WorkSchedule, date time.Time, shiftName string) int {
	if lastOut == nil {
		return 0
	}

	end := c.resolver.ScheduledEnd(ws, date, shiftName)
	if _, coreEnd := c.resolver.CoreWindow(ws, date); coreEnd != nil {
		end = coreEnd
	}
	if end == nil {
		return 0
	}
	return max(0, minutesBetween(*lastOut, *end))
}

// Overtime is the larger of time past the scheduled end and work beyond the
// schedule's daily threshold.
func (c *TimeCalculator) Overtime(lastOut *time.Time, totalWorkMinutes int, ws schedule.WorkSchedule, date time.Time, shiftName string) int {
	pastEnd := 0
	if lastOut != nil {
		if end := c.resolver.ScheduledEnd(ws, date, shiftName); end != nil {
			pastEnd = minutesBetween(*end, *lastOut)
		}
	}
	beyondThreshold := totalWorkMinutes - ws.Overtime.ThresholdMinutes()
	return max(0, pastEnd, beyondThreshold)
}

// NightDifferential sums the overlap of each complete pair with the night
// window. The window is anchored on the pair's start date and the day
// before it so intervals that begin after midnight are still covered.
func (c *TimeCalculator) NightDifferential(pairs []WorkPair, ws schedule.WorkSchedule) int {
	if !ws.NightDiff.Enabled {
		return 0
	}
	windowStart, windowEnd := ws.NightDiff.Window()

	total := 0
	for _, pair := range pairs {
		if !pair.Complete() {
			continue
		}
		in, out := pair.In.At, pair.Out.At
		anchor := schedule.DateOf(in)
		for _, day := range []time.Time{anchor.AddDate(0, 0, -1), anchor} {
			start := windowStart.On(day)
			end := windowEnd.On(day)
			if windowEnd <= windowStart {
				end = end.AddDate(0, 0, 1)
			}
			total += overlapMinutes(in, out, start, end)
		}
	}
	return total
}

func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return minutesBetween(start, end)
}
