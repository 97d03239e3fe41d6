package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-dtr-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-dtr-go/internal/service/attendance"
	scheduleService "github.com/cmlabs-hris/hris-dtr-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seed struct {
	branchID   string
	employeeID string
	scheduleID string
}

func seedEmployee(t *testing.T, ctx context.Context, setup *TestDatabaseSetup) seed {
	t.Helper()
	require.NoError(t, setup.TruncateAllTables(ctx))

	var s seed
	companyID := "0193f5a0-0000-7000-8000-000000000001"

	err := setup.DB.QueryRow(ctx, `
		INSERT INTO branches (company_id, name, timezone) VALUES ($1, 'Head Office', 'UTC')
		RETURNING id
	`, companyID).Scan(&s.branchID)
	require.NoError(t, err)

	err = setup.DB.QueryRow(ctx, `
		INSERT INTO employees (company_id, branch_id, employee_code, full_name)
		VALUES ($1, $2, 'EMP-001', 'Test Employee')
		RETURNING id
	`, companyID, s.branchID).Scan(&s.employeeID)
	require.NoError(t, err)

	err = setup.DB.QueryRow(ctx, `
		INSERT INTO work_schedules (company_id, name, kind, time_config)
		VALUES ($1, 'Office Hours', 'fixed', '{"start":"09:00","end":"18:00","work_days":[1,2,3,4,5]}')
		RETURNING id
	`, companyID).Scan(&s.scheduleID)
	require.NoError(t, err)

	_, err = setup.DB.Exec(ctx, `
		INSERT INTO employee_schedule_assignments (employee_id, work_schedule_id, start_date)
		VALUES ($1, $2, '2025-01-01')
	`, s.employeeID, s.scheduleID)
	require.NoError(t, err)

	return s
}

func insertScan(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, employeeID string, at time.Time) {
	t.Helper()
	_, err := setup.DB.Exec(ctx, `INSERT INTO attendance_scans (employee_id, logged_at) VALUES ($1, $2)`, employeeID, at)
	require.NoError(t, err)
}

func newService(setup *TestDatabaseSetup, now time.Time) attendance.DTRService {
	return attendanceService.NewDTRService(
		postgresql.NewScanEventRepository(setup.DB),
		postgresql.NewDailyTimeRecordRepository(setup.DB),
		postgresql.NewEmployeeRepository(setup.DB),
		postgresql.NewHolidayRepository(setup.DB),
		scheduleService.NewResolver(
			postgresql.NewWorkScheduleRepository(setup.DB),
			postgresql.NewScheduleAssignmentRepository(setup.DB),
		),
		attendance.DefaultPolicy(),
		func() time.Time { return now },
	)
}

func TestDailyTimeRecordPersistence(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedEmployee(t, ctx, setup)

	day := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	insertScan(t, ctx, setup, s.employeeID, day.Add(9*time.Hour+5*time.Minute))
	insertScan(t, ctx, setup, s.employeeID, day.Add(18*time.Hour+30*time.Minute))

	now := time.Date(2025, time.January, 7, 1, 0, 0, 0, time.UTC)
	svc := newService(setup, now)

	first, err := svc.CalculateForDate(ctx, s.employeeID, day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, first.Status)
	assert.Equal(t, 5, first.LateMinutes)
	assert.Equal(t, 30, first.OvertimeMinutes)
	assert.Equal(t, 505, first.TotalWorkMinutes)
	require.Len(t, first.Punches, 2)
	assert.Equal(t, attendance.PunchIn, first.Punches[0].PunchType)
	assert.Equal(t, attendance.PunchOut, first.Punches[1].PunchType)

	t.Run("recompute replaces in place and keeps approval", func(t *testing.T) {
		_, err := setup.DB.Exec(ctx, `UPDATE daily_time_records SET overtime_approved = TRUE WHERE id = $1`, first.ID)
		require.NoError(t, err)

		second, err := svc.CalculateForDate(ctx, s.employeeID, day)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.OvertimeApproved)
		assert.Len(t, second.Punches, 2)

		var count int
		require.NoError(t, setup.DB.QueryRow(ctx, `SELECT COUNT(*) FROM daily_time_records WHERE employee_id = $1`, s.employeeID).Scan(&count))
		assert.Equal(t, 1, count)
		require.NoError(t, setup.DB.QueryRow(ctx, `SELECT COUNT(*) FROM punch_records`).Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("list reads stored records", func(t *testing.T) {
		repo := postgresql.NewDailyTimeRecordRepository(setup.DB)
		records, err := repo.ListByEmployeeBetween(ctx, s.employeeID, day, day.AddDate(0, 0, 6))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Date.Equal(day))
		assert.Len(t, records[0].Punches, 2)
	})
}

func TestScheduleRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedEmployee(t, ctx, setup)

	t.Run("work schedule decodes its time config", func(t *testing.T) {
		ws, err := postgresql.NewWorkScheduleRepository(setup.DB).GetByID(ctx, s.scheduleID)
		require.NoError(t, err)
		assert.Equal(t, schedule.KindFixed, ws.Kind)
		assert.True(t, ws.NightDiff.Enabled)
		assert.Equal(t, 480, ws.Overtime.ThresholdMinutes())
		cfg, ok := ws.Config.(schedule.FixedConfig)
		require.True(t, ok)
		assert.Equal(t, schedule.NewTimeOfDay(9, 0), cfg.Start)
	})

	t.Run("missing work schedule", func(t *testing.T) {
		_, err := postgresql.NewWorkScheduleRepository(setup.DB).GetByID(ctx, "0193f5a0-0000-7000-8000-0000000000ff")
		assert.ErrorIs(t, err, schedule.ErrWorkScheduleNotFound)
	})

	t.Run("effective assignment", func(t *testing.T) {
		repo := postgresql.NewScheduleAssignmentRepository(setup.DB)
		a, err := repo.GetEffective(ctx, s.employeeID, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, s.scheduleID, a.WorkScheduleID)

		a, err = repo.GetEffective(ctx, s.employeeID, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("holiday prefers regular", func(t *testing.T) {
		_, err := setup.DB.Exec(ctx, `
			INSERT INTO holidays (date, name, kind, is_national, branch_id) VALUES
				('2025-04-17', 'Local Fiesta', 'special', FALSE, $1),
				('2025-04-17', 'Maundy Thursday', 'regular', TRUE, NULL)
		`, s.branchID)
		require.NoError(t, err)

		h, err := postgresql.NewHolidayRepository(setup.DB).FindForDate(ctx, time.Date(2025, time.April, 17, 0, 0, 0, 0, time.UTC), &s.branchID)
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.Equal(t, "Maundy Thursday", h.Name)
		assert.Equal(t, schedule.HolidayRegular, h.Kind)
	})

	t.Run("employee carries branch timezone", func(t *testing.T) {
		repo := postgresql.NewEmployeeRepository(setup.DB)
		emp, err := repo.GetByID(ctx, s.employeeID)
		require.NoError(t, err)
		assert.Equal(t, "UTC", emp.Timezone)

		active, err := repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		_, err = repo.GetByID(ctx, "0193f5a0-0000-7000-8000-0000000000ff")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}
