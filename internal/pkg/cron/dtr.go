package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

type DTRJobs struct {
	dtrService   attendance.DTRService
	employeeRepo employee.EmployeeRepository
	runHour      int
	workers      int
	now          func() time.Time
}

func NewDTRJobs(
	dtrService attendance.DTRService,
	employeeRepo employee.EmployeeRepository,
	runHour int,
	workers int,
	now func() time.Time,
) *DTRJobs {
	if now == nil {
		now = time.Now
	}
	if workers <= 0 {
		workers = 1
	}
	return &DTRJobs{
		dtrService:   dtrService,
		employeeRepo: employeeRepo,
		runHour:      runHour,
		workers:      workers,
		now:          now,
	}
}

func (j *DTRJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDailyJob("recompute_previous_day_dtr", j.runHour, j.RecomputePreviousDay)
}

// RecomputePreviousDay recomputes yesterday's record, in each employee's own
// timezone, for every active employee. One employee failing does not stop
// the others; the job reports how many failed.
func (j *DTRJobs) RecomputePreviousDay(ctx context.Context) error {
	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	slog.Info("Cron: Starting daily time record recompute", "employees", len(employees))

	now := j.now()
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)

	for _, emp := range employees {
		g.Go(func() error {
			y, m, d := now.In(emp.Location()).Date()
			date := time.Date(y, m, d-1, 0, 0, 0, 0, time.UTC)

			if _, err := j.dtrService.CalculateForDate(gctx, emp.ID, date); err != nil {
				failed.Add(1)
				slog.Error("Cron: Failed to recompute daily time record",
					"employee_id", emp.ID,
					"date", date.Format("2006-01-02"),
					"error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("Cron: Daily time record recompute finished",
		"employees", len(employees),
		"failed", failed.Load())

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to recompute %d of %d employees", n, len(employees))
	}
	return nil
}
