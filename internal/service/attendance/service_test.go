package attendance

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/validator"
	scheduleService "github.com/cmlabs-hris/hris-dtr-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// In-memory repositories
// ----------------------------------------------------------------------------

type fakeWorkScheduleRepo map[string]schedule.WorkSchedule

func (f fakeWorkScheduleRepo) GetByID(ctx context.Context, id string) (schedule.WorkSchedule, error) {
	ws, ok := f[id]
	if !ok {
		return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
	}
	return ws, nil
}

type fakeAssignmentRepo []schedule.ScheduleAssignment

func (f fakeAssignmentRepo) GetEffective(ctx context.Context, employeeID string, date time.Time) (*schedule.ScheduleAssignment, error) {
	var best *schedule.ScheduleAssignment
	for i := range f {
		a := f[i]
		if a.EmployeeID != employeeID || !a.Covers(date) {
			continue
		}
		if best == nil || a.EffectiveDate.After(best.EffectiveDate) {
			best = &a
		}
	}
	return best, nil
}

type fakeEmployeeRepo map[string]employee.Employee

func (f fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f {
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeHolidayRepo []schedule.Holiday

func (f fakeHolidayRepo) FindForDate(ctx context.Context, date time.Time, workLocationID *string) (*schedule.Holiday, error) {
	for i := range f {
		if f[i].Date.Format("2006-01-02") == date.Format("2006-01-02") {
			h := f[i]
			return &h, nil
		}
	}
	return nil, nil
}

type fakeScanRepo struct {
	scans []attendance.ScanEvent
}

func (f *fakeScanRepo) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ScanEvent, error) {
	var out []attendance.ScanEvent
	for _, s := range f.scans {
		if s.EmployeeID == employeeID && !s.LoggedAt.Before(from) && !s.LoggedAt.After(to) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b attendance.ScanEvent) int { return a.LoggedAt.Compare(b.LoggedAt) })
	return out, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]attendance.DailyTimeRecord
	saves   int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]attendance.DailyTimeRecord)}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeRecordRepo) Save(ctx context.Context, record attendance.DailyTimeRecord, punches []attendance.PunchRecord) (attendance.DailyTimeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++

	key := recordKey(record.EmployeeID, record.Date)
	if existing, ok := f.records[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = fmt.Sprintf("dtr-%d", len(f.records)+1)
		record.CreatedAt = record.ComputedAt
	}
	record.UpdatedAt = record.ComputedAt

	record.Punches = make([]attendance.PunchRecord, 0, len(punches))
	for i, p := range punches {
		p.ID = fmt.Sprintf("%s-p%d", record.ID, i+1)
		p.DailyTimeRecordID = record.ID
		record.Punches = append(record.Punches, p)
	}
	f.records[key] = record
	return record, nil
}

func (f *fakeRecordRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyTimeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[recordKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRecordRepo) ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyTimeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.DailyTimeRecord
	for _, r := range f.records {
		d := civilDate(r.Date)
		if r.EmployeeID == employeeID && !d.Before(civilDate(start)) && !d.After(civilDate(end)) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b attendance.DailyTimeRecord) int { return a.Date.Compare(b.Date) })
	return out, nil
}

// ----------------------------------------------------------------------------
// Fixture
// ----------------------------------------------------------------------------

var fixedNow = time.Date(2025, time.February, 1, 3, 0, 0, 0, time.UTC)

type fixture struct {
	schedules   fakeWorkScheduleRepo
	assignments fakeAssignmentRepo
	employees   fakeEmployeeRepo
	holidays    fakeHolidayRepo
	scans       *fakeScanRepo
	records     *fakeRecordRepo
	scanSeq     int
}

func newFixture() *fixture {
	return &fixture{
		schedules: fakeWorkScheduleRepo{},
		employees: fakeEmployeeRepo{
			"emp-1": {ID: "emp-1", EmployeeCode: "E001", FullName: "Test Employee", EmploymentStatus: employee.EmploymentStatusActive},
		},
		scans:   &fakeScanRepo{},
		records: newFakeRecordRepo(),
	}
}

func (f *fixture) assign(ws schedule.WorkSchedule) {
	f.schedules[ws.ID] = ws
	f.assignments = append(f.assignments, schedule.ScheduleAssignment{
		ID:             "assign-" + ws.ID,
		EmployeeID:     "emp-1",
		WorkScheduleID: ws.ID,
		EffectiveDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (f *fixture) scan(t time.Time, raw ...string) {
	f.scanSeq++
	s := attendance.ScanEvent{
		ID:         fmt.Sprintf("scan-%02d", f.scanSeq),
		EmployeeID: "emp-1",
		LoggedAt:   t,
	}
	if len(raw) > 0 {
		s.RawDirection = &raw[0]
	}
	f.scans.scans = append(f.scans.scans, s)
}

func (f *fixture) service() attendance.DTRService {
	resolver := scheduleService.NewResolver(f.schedules, f.assignments)
	return NewDTRService(f.scans, f.records, f.employees, f.holidays, resolver, attendance.DefaultPolicy(), func() time.Time { return fixedNow })
}

// 2025-01-06 is a Monday.
func date(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func clock(d, h, m int) time.Time {
	return date(d).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// ----------------------------------------------------------------------------
// Scenarios
// ----------------------------------------------------------------------------

func TestCalculateForDate_LateWithOvertime(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(9, 0), tod(18, 0)))
	f.scan(clock(6, 9, 5))
	f.scan(clock(6, 18, 30))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 5, rec.LateMinutes)
	assert.Equal(t, 0, rec.UndertimeMinutes)
	assert.Equal(t, 30, rec.OvertimeMinutes)
	assert.Equal(t, 505, rec.TotalWorkMinutes)
	assert.Equal(t, 60, rec.TotalBreakMinutes)
	assert.Equal(t, 540, rec.RequiredMinutes)
	assert.False(t, rec.NeedsReview)
	require.NotNil(t, rec.Remarks)
	assert.Contains(t, *rec.Remarks, "60-minute break")
	require.Len(t, rec.Punches, 2)
	assert.Equal(t, attendance.PunchIn, rec.Punches[0].PunchType)
	assert.Equal(t, attendance.PunchOut, rec.Punches[1].PunchType)
	assert.Equal(t, fixedNow, rec.ComputedAt)
}

func TestCalculateForDate_OvernightShift(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(22, 0), tod(6, 0)))
	f.scan(clock(6, 21, 55))
	f.scan(clock(7, 6, 10))
	svc := f.service()

	rec, err := svc.CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	require.NotNil(t, rec.FirstIn)
	require.NotNil(t, rec.LastOut)
	assert.Equal(t, clock(6, 21, 55), *rec.FirstIn)
	assert.Equal(t, clock(7, 6, 10), *rec.LastOut)
	assert.Equal(t, 480, rec.NightDiffMinutes)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.Equal(t, 0, rec.UndertimeMinutes)

	next, err := svc.CalculateForDate(context.Background(), "emp-1", date(7))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, next.Status)
	assert.Empty(t, next.Punches)
}

func TestCalculateForDate_RestDayWork(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(12, 10, 0))
	f.scan(clock(12, 14, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(12))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusRestDay, rec.Status)
	assert.Equal(t, 240, rec.TotalWorkMinutes)
	assert.Equal(t, 240, rec.OvertimeMinutes)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.True(t, rec.NeedsReview)
}

func TestCalculateForDate_RestDayWithoutScans(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(12))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusRestDay, rec.Status)
	assert.False(t, rec.NeedsReview)
}

func TestCalculateForDate_RestDayLoneScanNeedsReview(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(12, 10, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(12))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusRestDay, rec.Status)
	assert.Equal(t, 0, rec.TotalWorkMinutes)
	assert.True(t, rec.NeedsReview)
	require.NotNil(t, rec.ReviewReason)
	assert.Contains(t, *rec.ReviewReason, "Missing time-out")
	assert.NotContains(t, *rec.ReviewReason, "Worked on a rest day")
	require.Len(t, rec.Punches, 1)
}

func TestCalculateForDate_ShiftEndingAtMidnightOwnsOverflow(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(16, 0), tod(0, 0)))
	f.scan(clock(10, 16, 0))
	f.scan(clock(11, 0, 30))
	svc := f.service()

	fri, err := svc.CalculateForDate(context.Background(), "emp-1", date(10))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, fri.Status)
	require.NotNil(t, fri.LastOut)
	assert.Equal(t, clock(11, 0, 30), *fri.LastOut)

	sat, err := svc.CalculateForDate(context.Background(), "emp-1", date(11))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusRestDay, sat.Status)
	assert.Empty(t, sat.Punches)
	assert.False(t, sat.NeedsReview)

	seen := map[string]int{}
	for _, rec := range []attendance.DailyTimeRecord{fri, sat} {
		for _, p := range rec.Punches {
			seen[p.ScanEventID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "scan %s belongs to more than one record", id)
	}
}

func TestCalculateForDate_UnknownShiftNeedsReview(t *testing.T) {
	f := newFixture()
	ws := schedule.WorkSchedule{
		ID:   "ws-shift",
		Kind: schedule.KindShifting,
		Config: schedule.ShiftingConfig{Shifts: []schedule.Shift{
			{Name: "Morning", Start: tod(6, 0), End: tod(14, 0)},
		}},
	}
	f.assign(ws)
	ghost := "Graveyard"
	f.assignments[0].ShiftName = &ghost
	f.scan(clock(6, 6, 0))
	f.scan(clock(6, 14, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.True(t, rec.NeedsReview)
	require.NotNil(t, rec.ReviewReason)
	assert.Contains(t, *rec.ReviewReason, `Assigned shift "Graveyard" not found in schedule`)
}

func TestCalculateForDate_FlexibleAbsent(t *testing.T) {
	f := newFixture()
	f.assign(schedule.WorkSchedule{
		ID:   "ws-flex",
		Kind: schedule.KindFlexible,
		Config: schedule.FlexibleConfig{
			Start: tod(7, 0), End: tod(19, 0), CoreStart: tod(10, 0), CoreEnd: tod(16, 0),
			Break: &schedule.BreakConfig{DurationMinutes: 60},
		},
	})

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, 0, rec.TotalWorkMinutes)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.Equal(t, 0, rec.UndertimeMinutes)
	assert.Equal(t, 0, rec.OvertimeMinutes)
	assert.Equal(t, 0, rec.NightDiffMinutes)
	assert.Equal(t, 660, rec.RequiredMinutes)
	assert.False(t, rec.NeedsReview)
	assert.Nil(t, rec.FirstIn)
}

func TestCalculateForDate_StrayScanDropped(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 7, 58))
	f.scan(clock(6, 12, 0))
	f.scan(clock(6, 17, 5))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, clock(6, 7, 58), *rec.FirstIn)
	assert.Equal(t, clock(6, 17, 5), *rec.LastOut)
	assert.True(t, rec.NeedsReview)
	require.NotNil(t, rec.ReviewReason)
	assert.Contains(t, *rec.ReviewReason, "1 attendance scan(s) could not be matched to schedule")
	assert.Len(t, rec.Punches, 2)
}

func TestCalculateForDate_RecordedBreak(t *testing.T) {
	f := newFixture()
	bs := tod(12, 0)
	ws := fixedSchedule(tod(8, 0), tod(17, 0))
	ws.Config = schedule.FixedConfig{Start: tod(8, 0), End: tod(17, 0), Break: &schedule.BreakConfig{Start: &bs, DurationMinutes: 60}}
	f.assign(ws)
	f.scan(clock(6, 8, 0), "1")
	f.scan(clock(6, 12, 0), "3")
	f.scan(clock(6, 13, 0), "4")
	f.scan(clock(6, 17, 0), "2")

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, 480, rec.TotalWorkMinutes)
	assert.Equal(t, 60, rec.TotalBreakMinutes)
	assert.Equal(t, 480, rec.RequiredMinutes)
	assert.Equal(t, 0, rec.OvertimeMinutes)
	assert.False(t, rec.NeedsReview)
	assert.Len(t, rec.Punches, 4)
}

func TestCalculateForDate_ConfiguredBreakWindowDeducted(t *testing.T) {
	f := newFixture()
	bs := tod(12, 0)
	ws := fixedSchedule(tod(8, 0), tod(17, 0))
	ws.Config = schedule.FixedConfig{Start: tod(8, 0), End: tod(17, 0), Break: &schedule.BreakConfig{Start: &bs, DurationMinutes: 60}}
	f.assign(ws)
	f.scan(clock(6, 8, 0))
	f.scan(clock(6, 17, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, 480, rec.TotalWorkMinutes)
	assert.Equal(t, 60, rec.TotalBreakMinutes)
}

func TestCalculateForDate_SplitPairsUseGapAsBreak(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 8, 0), "in")
	f.scan(clock(6, 12, 0), "out")
	f.scan(clock(6, 13, 0), "in")
	f.scan(clock(6, 17, 0), "out")

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, 480, rec.TotalWorkMinutes)
	assert.Equal(t, 60, rec.TotalBreakMinutes)
	assert.Nil(t, rec.Remarks)
}

func TestCalculateForDate_MissingTimeOut(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 8, 2))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 2, rec.LateMinutes)
	assert.Equal(t, 0, rec.TotalWorkMinutes)
	assert.Equal(t, 0, rec.UndertimeMinutes)
	assert.Nil(t, rec.LastOut)
	assert.True(t, rec.NeedsReview)
	assert.Contains(t, *rec.ReviewReason, "Missing time-out")
}

func TestCalculateForDate_MissingTimeIn(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 17, 0), "out")

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Nil(t, rec.FirstIn)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.True(t, rec.NeedsReview)
	assert.Contains(t, *rec.ReviewReason, "Missing time-in")
}

func TestCalculateForDate_DuplicateTapsCollapse(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 8, 0))
	f.scan(clock(6, 8, 0).Add(30 * time.Second))
	f.scan(clock(6, 8, 1))
	f.scan(clock(6, 17, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Len(t, rec.Punches, 2)
	assert.False(t, rec.NeedsReview)
}

func TestCalculateForDate_Holiday(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.holidays = fakeHolidayRepo{{ID: "h-1", Date: date(6), Name: "Founders Day", Kind: schedule.HolidayRegular, IsNational: true}}
	f.scan(clock(6, 8, 0))
	f.scan(clock(6, 17, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusHoliday, rec.Status)
	assert.Equal(t, 480, rec.TotalWorkMinutes)
	assert.Equal(t, 480, rec.OvertimeMinutes)
	assert.Equal(t, 0, rec.LateMinutes)
	require.NotNil(t, rec.Remarks)
	assert.Contains(t, *rec.Remarks, "Holiday: Founders Day (regular)")
}

func TestCalculateForDate_HolidayWithoutScans(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.holidays = fakeHolidayRepo{{ID: "h-1", Date: date(6), Name: "Founders Day", Kind: schedule.HolidaySpecial}}

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusHoliday, rec.Status)
	assert.Equal(t, 0, rec.OvertimeMinutes)
	assert.False(t, rec.NeedsReview)
}

func TestCalculateForDate_NoSchedule(t *testing.T) {
	f := newFixture()
	f.scan(clock(6, 8, 0))
	f.scan(clock(6, 12, 0))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusNoSchedule, rec.Status)
	assert.Nil(t, rec.WorkScheduleID)
	assert.Equal(t, 240, rec.TotalWorkMinutes)
	assert.True(t, rec.NeedsReview)
	assert.Contains(t, *rec.ReviewReason, "No work schedule assigned")
}

func TestCalculateForDate_UnknownEmployee(t *testing.T) {
	f := newFixture()

	_, err := f.service().CalculateForDate(context.Background(), "emp-404", date(6))
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))
}

func TestCalculateForDate_EmployeeTimezone(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Manila"); err != nil {
		t.Skip("tzdata not available")
	}
	f := newFixture()
	emp := f.employees["emp-1"]
	emp.Timezone = "Asia/Manila"
	f.employees["emp-1"] = emp
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(time.Date(2025, time.January, 6, 0, 30, 0, 0, time.UTC))
	f.scan(time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC))

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 30, rec.LateMinutes)
	assert.Equal(t, "2025-01-06", rec.Date.Format("2006-01-02"))
}

func TestCalculateForDate_Idempotent(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 7, 58))
	f.scan(clock(6, 12, 0))
	f.scan(clock(6, 17, 5))
	svc := f.service()

	first, err := svc.CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)
	second, err := svc.CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.records.records, 1)
	assert.Equal(t, 2, f.records.saves)
}

func TestCalculateForDate_ConcurrentRecomputeKeepsOneRecord(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 8, 0))
	f.scan(clock(6, 17, 0))
	svc := f.service()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CalculateForDate(context.Background(), "emp-1", date(6))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.records.records, 1)
	rec := f.records.records[recordKey("emp-1", date(6))]
	assert.Len(t, rec.Punches, 2)
}

func TestCalculateForDate_NonNegative(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(22, 0), tod(6, 0)))
	f.scan(clock(6, 19, 30), "out")
	f.scan(clock(6, 19, 45), "in")
	f.scan(clock(6, 23, 0))
	f.scan(clock(7, 1, 0), "break_in")

	rec, err := f.service().CalculateForDate(context.Background(), "emp-1", date(6))
	require.NoError(t, err)

	for name, v := range map[string]int{
		"work":      rec.TotalWorkMinutes,
		"break":     rec.TotalBreakMinutes,
		"late":      rec.LateMinutes,
		"undertime": rec.UndertimeMinutes,
		"overtime":  rec.OvertimeMinutes,
		"night":     rec.NightDiffMinutes,
	} {
		assert.GreaterOrEqual(t, v, 0, name)
	}
	assert.True(t, rec.NeedsReview)
}

func TestCalculateForDateRange(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(8, 0), tod(17, 0)))
	f.scan(clock(6, 8, 0))
	f.scan(clock(6, 17, 0))
	svc := f.service()

	records, err := svc.CalculateForDateRange(context.Background(), "emp-1", date(6), date(8))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, attendance.StatusPresent, records[0].Status)
	assert.Equal(t, attendance.StatusAbsent, records[1].Status)
	assert.Equal(t, "2025-01-08", records[2].Date.Format("2006-01-02"))

	_, err = svc.CalculateForDateRange(context.Background(), "emp-1", date(8), date(6))
	assert.ErrorIs(t, err, attendance.ErrInvalidDateRange)

	_, err = svc.CalculateForDateRange(context.Background(), "emp-1", date(1), date(1).AddDate(0, 3, 0))
	assert.ErrorIs(t, err, attendance.ErrDateRangeTooLong)
}

func TestCalculate_ValidatesRequest(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Calculate(context.Background(), attendance.CalculateRequest{Date: "06-01-2025"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestCalculateAndListRecords(t *testing.T) {
	f := newFixture()
	f.assign(fixedSchedule(tod(9, 0), tod(18, 0)))
	f.scan(clock(6, 9, 5))
	f.scan(clock(6, 18, 30))
	svc := f.service()

	resp, err := svc.Calculate(context.Background(), attendance.CalculateRequest{EmployeeID: "emp-1", Date: "2025-01-06"})
	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, "2025-01-06", resp.Date)
	assert.Equal(t, 5, resp.LateMinutes)

	ranged, err := svc.CalculateRange(context.Background(), attendance.CalculateRangeRequest{
		EmployeeID: "emp-1", StartDate: "2025-01-06", EndDate: "2025-01-07",
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	listed, err := svc.ListRecords(context.Background(), attendance.RecordFilter{
		EmployeeID: "emp-1", StartDate: "2025-01-01", EndDate: "2025-01-31",
	})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, resp.ID, listed[0].ID)
}
