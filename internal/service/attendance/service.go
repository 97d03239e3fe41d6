package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
)

// Clock returns the current instant; injected so recomputation is reproducible.
type Clock func() time.Time

type DTRServiceImpl struct {
	scanEventRepository       attendance.ScanEventRepository
	dailyTimeRecordRepository attendance.DailyTimeRecordRepository
	employeeRepository        employee.EmployeeRepository
	holidayRepository         schedule.HolidayRepository
	resolver                  schedule.Resolver
	processor                 *PunchProcessor
	calculator                *TimeCalculator
	policy                    attendance.Policy
	now                       Clock
	locks                     *keyedMutex
}

func NewDTRService(
	scanEventRepository attendance.ScanEventRepository,
	dailyTimeRecordRepository attendance.DailyTimeRecordRepository,
	employeeRepository employee.EmployeeRepository,
	holidayRepository schedule.HolidayRepository,
	resolver schedule.Resolver,
	policy attendance.Policy,
	now Clock,
) attendance.DTRService {
	if now == nil {
		now = time.Now
	}
	return &DTRServiceImpl{
		scanEventRepository:       scanEventRepository,
		dailyTimeRecordRepository: dailyTimeRecordRepository,
		employeeRepository:        employeeRepository,
		holidayRepository:         holidayRepository,
		resolver:                  resolver,
		processor:                 NewPunchProcessor(policy),
		calculator:                NewTimeCalculator(resolver),
		policy:                    policy,
		now:                       now,
		locks:                     newKeyedMutex(),
	}
}

// CalculateForDate implements attendance.DTRService.
func (s *DTRServiceImpl) CalculateForDate(ctx context.Context, employeeID string, date time.Time) (attendance.DailyTimeRecord, error) {
	emp, err := s.employeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DailyTimeRecord{}, fmt.Errorf("failed to get employee: %w", err)
	}

	loc := emp.Location()
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	unlock := s.locks.Lock(emp.ID + "|" + day.Format("2006-01-02"))
	defer unlock()

	res, err := s.resolver.Resolve(ctx, emp.ID, day)
	if err != nil {
		return attendance.DailyTimeRecord{}, fmt.Errorf("failed to resolve schedule: %w", err)
	}

	from, to, err := s.scanWindow(ctx, emp.ID, day, res)
	if err != nil {
		return attendance.DailyTimeRecord{}, err
	}

	var scans []attendance.ScanEvent
	if !from.After(to) {
		scans, err = s.scanEventRepository.ListByEmployeeBetween(ctx, emp.ID, from, to)
		if err != nil {
			return attendance.DailyTimeRecord{}, fmt.Errorf("failed to list scan events: %w", err)
		}
	}
	punches := s.processor.CollapseDuplicates(PunchesFromScans(scans, loc))

	record, punchRecords, err := s.compute(ctx, emp, day, res, punches)
	if err != nil {
		return attendance.DailyTimeRecord{}, err
	}

	saved, err := s.dailyTimeRecordRepository.Save(ctx, record, punchRecords)
	if err != nil {
		return attendance.DailyTimeRecord{}, fmt.Errorf("failed to save daily time record: %w", err)
	}

	slog.Debug("Daily time record computed",
		"employee_id", emp.ID,
		"date", day.Format("2006-01-02"),
		"status", saved.Status,
		"scans", len(scans),
		"needs_review", saved.NeedsReview)

	return saved, nil
}

// scanWindow bounds the scans that belong to day. It starts at local
// midnight, skips the overflow of a previous schedule ending at or after
// midnight, allows early arrivals, and reaches past midnight when today's
// schedule does. Both bounds use the same cutoff so adjacent windows never
// share a scan.
func (s *DTRServiceImpl) scanWindow(ctx context.Context, employeeID string, day time.Time, res schedule.Resolution) (time.Time, time.Time, error) {
	nextDay := day.AddDate(0, 0, 1)
	from := day
	to := nextDay.Add(-time.Microsecond)

	prevDay := day.AddDate(0, 0, -1)
	prev, err := s.resolver.Resolve(ctx, employeeID, prevDay)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to resolve previous day schedule: %w", err)
	}
	if prev.Found() && s.resolver.IsWorkDay(*prev.Schedule, prevDay) {
		if prevEnd := s.resolver.ScheduledEnd(*prev.Schedule, prevDay, prev.Shift()); prevEnd != nil && !prevEnd.Before(day) {
			if cutoff := prevEnd.Add(s.policy.OverflowGrace); cutoff.After(from) {
				from = cutoff
			}
		}
	}

	if res.Found() && s.resolver.IsWorkDay(*res.Schedule, day) {
		if start := s.resolver.ScheduledStart(*res.Schedule, day, res.Shift()); start != nil {
			if early := start.Add(-s.policy.EarlyWindow); early.After(from) {
				from = early
			}
		}
		if end := s.resolver.ScheduledEnd(*res.Schedule, day, res.Shift()); end != nil && !end.Before(nextDay) {
			to = end.Add(s.policy.OverflowGrace - time.Microsecond)
		}
	}

	return from, to, nil
}

type workSummary struct {
	minutes      int
	breakMinutes int
	remark       string
}

func (s *DTRServiceImpl) compute(
	ctx context.Context,
	emp employee.Employee,
	day time.Time,
	res schedule.Resolution,
	punches []Punch,
) (attendance.DailyTimeRecord, []attendance.PunchRecord, error) {
	record := attendance.DailyTimeRecord{
		EmployeeID: emp.ID,
		Date:       day,
		ComputedAt: s.now(),
	}
	var reviews, remarks []string

	if !res.Found() {
		pr := s.processor.Process(s.processor.InferDirections(punches))
		work := s.deriveWork(pr, nil, day, "")
		record.Status = attendance.StatusNoSchedule
		applyPairs(&record, pr, work)
		reviews = append(reviews, "No work schedule assigned")
		reviews = append(reviews, anomalies(pr, 0)...)
		remarks = appendRemark(remarks, work.remark)
		finish(&record, reviews, remarks)
		return record, s.processor.PunchRecords(pr.Pairs, pr.BreakPairs), nil
	}

	ws := *res.Schedule
	shift := res.Shift()
	record.WorkScheduleID = &ws.ID
	record.ShiftName = res.ShiftName
	if missingShift(ws, shift) {
		reviews = append(reviews, fmt.Sprintf("Assigned shift %q not found in schedule", shift))
	}

	if !s.resolver.IsWorkDay(ws, day) {
		pr := s.processor.Process(s.processor.InferDirections(punches))
		work := s.deriveWork(pr, &ws, day, shift)
		record.Status = attendance.StatusRestDay
		applyPairs(&record, pr, work)
		record.OvertimeMinutes = work.minutes
		record.NightDiffMinutes = s.calculator.NightDifferential(pr.Pairs, ws)
		remarks = append(remarks, "Rest day")
		remarks = appendRemark(remarks, work.remark)
		if work.minutes > 0 {
			reviews = append(reviews, "Worked on a rest day")
		}
		reviews = append(reviews, anomalies(pr, 0)...)
		finish(&record, reviews, remarks)
		return record, s.processor.PunchRecords(pr.Pairs, pr.BreakPairs), nil
	}

	holiday, err := s.holidayRepository.FindForDate(ctx, day, emp.WorkLocationID())
	if err != nil {
		return attendance.DailyTimeRecord{}, nil, fmt.Errorf("failed to find holiday: %w", err)
	}
	if holiday != nil {
		pr, dropped := s.resolvePunches(ws, day, shift, punches)
		work := s.deriveWork(pr, &ws, day, shift)
		record.Status = attendance.StatusHoliday
		applyPairs(&record, pr, work)
		record.OvertimeMinutes = work.minutes
		record.NightDiffMinutes = s.calculator.NightDifferential(pr.Pairs, ws)
		remarks = append(remarks, fmt.Sprintf("Holiday: %s (%s)", holiday.Name, holiday.Kind))
		remarks = appendRemark(remarks, work.remark)
		reviews = append(reviews, anomalies(pr, dropped)...)
		finish(&record, reviews, remarks)
		return record, s.processor.PunchRecords(pr.Pairs, pr.BreakPairs), nil
	}

	record.RequiredMinutes = s.resolver.RequiredWorkMinutes(ws, day, shift)

	if len(punches) == 0 {
		record.Status = attendance.StatusAbsent
		finish(&record, reviews, nil)
		return record, nil, nil
	}

	pr, dropped := s.resolvePunches(ws, day, shift, punches)
	work := s.deriveWork(pr, &ws, day, shift)
	record.Status = attendance.StatusPresent
	applyPairs(&record, pr, work)
	record.LateMinutes = s.calculator.Late(pr.FirstIn, ws, day, shift)
	record.UndertimeMinutes = s.calculator.Undertime(pr.LastOut, ws, day, shift)
	record.OvertimeMinutes = s.calculator.Overtime(pr.LastOut, work.minutes, ws, day, shift)
	record.NightDiffMinutes = s.calculator.NightDifferential(pr.Pairs, ws)
	remarks = appendRemark(remarks, work.remark)
	reviews = append(reviews, anomalies(pr, dropped)...)
	finish(&record, reviews, remarks)
	return record, s.processor.PunchRecords(pr.Pairs, pr.BreakPairs), nil
}

// resolvePunches matches punches against the day's schedule events, falling
// back to alternation when the schedule has no usable start or end.
func (s *DTRServiceImpl) resolvePunches(ws schedule.WorkSchedule, day time.Time, shift string, punches []Punch) (PairResult, int) {
	start := s.resolver.ScheduledStart(ws, day, shift)
	end := s.resolver.ScheduledEnd(ws, day, shift)
	if start == nil || end == nil {
		return s.processor.Process(s.processor.InferDirections(punches)), 0
	}

	breakStart, breakEnd := s.resolver.BreakWindow(ws, day, shift)
	matched, dropped := s.processor.MatchToSchedule(punches, ExpectedEvents(start, end, breakStart, breakEnd))
	return s.processor.Process(matched), len(dropped)
}

// deriveWork turns pairs into worked and break minutes. Recorded breaks win
// over gaps between pairs; a single unbroken span gets the mandatory break
// deducted.
func (s *DTRServiceImpl) deriveWork(pr PairResult, ws *schedule.WorkSchedule, day time.Time, shift string) workSummary {
	total := s.processor.TotalWorkMinutes(pr.Pairs)

	if len(pr.BreakPairs) > 0 {
		return workSummary{
			minutes:      max(0, total-breakInsideWork(pr)),
			breakMinutes: s.processor.ActualBreakMinutes(pr.BreakPairs),
		}
	}
	if len(pr.Pairs) > 1 {
		return workSummary{
			minutes:      total,
			breakMinutes: s.processor.GapBreakMinutes(pr.Pairs),
		}
	}

	if deduct := s.mandatoryBreak(pr, ws, day, shift); deduct > 0 {
		return workSummary{
			minutes:      max(0, total-deduct),
			breakMinutes: deduct,
			remark:       fmt.Sprintf("Mandatory %d-minute break deducted", deduct),
		}
	}
	return workSummary{minutes: total}
}

// mandatoryBreak applies to exactly one complete pair. A configured break
// window is deducted when the pair covers it; a configured duration without
// a start, or no break configuration at all, is deducted once the span
// exceeds the inference threshold.
func (s *DTRServiceImpl) mandatoryBreak(pr PairResult, ws *schedule.WorkSchedule, day time.Time, shift string) int {
	if len(pr.Pairs) != 1 || !pr.Pairs[0].Complete() {
		return 0
	}
	in, out := pr.Pairs[0].In.At, pr.Pairs[0].Out.At
	longSpan := minutesBetween(in, out) > s.policy.BreakInferenceMinSpanMinutes

	if ws != nil {
		if breakStart, breakEnd := s.resolver.BreakWindow(*ws, day, shift); breakStart != nil {
			if !in.After(*breakStart) && !out.Before(*breakEnd) {
				return minutesBetween(*breakStart, *breakEnd)
			}
			return 0
		}
		if duration := s.resolver.BreakDuration(*ws, shift); duration > 0 {
			if longSpan {
				return duration
			}
			return 0
		}
	}

	if longSpan {
		return s.policy.DefaultBreakMinutes
	}
	return 0
}

// missingShift reports a shifting schedule whose assigned shift is absent from
// its configuration.
func missingShift(ws schedule.WorkSchedule, shift string) bool {
	cfg, ok := ws.Config.(schedule.ShiftingConfig)
	if !ok {
		return false
	}
	_, found := cfg.Shift(shift)
	return !found
}

func breakInsideWork(pr PairResult) int {
	total := 0
	for _, bp := range pr.BreakPairs {
		if !bp.Complete() {
			continue
		}
		for _, pair := range pr.Pairs {
			if pair.Complete() {
				total += overlapMinutes(bp.Out.At, bp.In.At, pair.In.At, pair.Out.At)
			}
		}
	}
	return total
}

func applyPairs(record *attendance.DailyTimeRecord, pr PairResult, work workSummary) {
	record.FirstIn = pr.FirstIn
	record.LastOut = pr.LastOut
	record.TotalWorkMinutes = work.minutes
	record.TotalBreakMinutes = work.breakMinutes
}

func anomalies(pr PairResult, dropped int) []string {
	var reasons []string
	if dropped > 0 {
		reasons = append(reasons, fmt.Sprintf("%d attendance scan(s) could not be matched to schedule", dropped))
	}
	if len(pr.UnpairedIn) > 0 {
		reasons = append(reasons, "Missing time-out")
	}
	if len(pr.UnpairedOut) > 0 {
		reasons = append(reasons, "Missing time-in")
	}
	for _, bp := range pr.BreakPairs {
		if !bp.Complete() {
			reasons = append(reasons, "Incomplete break scans")
			break
		}
	}
	return reasons
}

func appendRemark(remarks []string, remark string) []string {
	if remark == "" {
		return remarks
	}
	return append(remarks, remark)
}

func finish(record *attendance.DailyTimeRecord, reviews, remarks []string) {
	record.NeedsReview = len(reviews) > 0
	record.ReviewReason = joinOrNil(reviews)
	record.Remarks = joinOrNil(remarks)
}

func joinOrNil(parts []string) *string {
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "; ")
	return &joined
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalculateForDateRange implements attendance.DTRService.
func (s *DTRServiceImpl) CalculateForDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyTimeRecord, error) {
	startDay, endDay := civilDate(start), civilDate(end)
	if endDay.Before(startDay) {
		return nil, attendance.ErrInvalidDateRange
	}
	days := int(endDay.Sub(startDay)/(24*time.Hour)) + 1
	if s.policy.MaxRangeDays > 0 && days > s.policy.MaxRangeDays {
		return nil, attendance.ErrDateRangeTooLong
	}

	records := make([]attendance.DailyTimeRecord, 0, days)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		record, err := s.CalculateForDate(ctx, employeeID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate DTR for %s: %w", day.Format("2006-01-02"), err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Calculate implements attendance.DTRService.
func (s *DTRServiceImpl) Calculate(ctx context.Context, req attendance.CalculateRequest) (attendance.DailyTimeRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DailyTimeRecordResponse{}, err
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	record, err := s.CalculateForDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DailyTimeRecordResponse{}, err
	}
	return attendance.ToResponse(record), nil
}

// CalculateRange implements attendance.DTRService.
func (s *DTRServiceImpl) CalculateRange(ctx context.Context, req attendance.CalculateRangeRequest) ([]attendance.DailyTimeRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	records, err := s.CalculateForDateRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.DailyTimeRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses, nil
}

// ListRecords implements attendance.DTRService.
func (s *DTRServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.DailyTimeRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	start, _ := time.Parse("2006-01-02", filter.StartDate)
	end, _ := time.Parse("2006-01-02", filter.EndDate)

	records, err := s.dailyTimeRecordRepository.ListByEmployeeBetween(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily time records: %w", err)
	}

	responses := make([]attendance.DailyTimeRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses, nil
}
