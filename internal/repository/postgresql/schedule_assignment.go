package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleAssignmentRepository struct {
	db *database.DB
}

// GetEffective implements schedule.ScheduleAssignmentRepository.
func (s *scheduleAssignmentRepository) GetEffective(ctx context.Context, employeeID string, date time.Time) (*schedule.ScheduleAssignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, employee_id, work_schedule_id, shift_name, start_date, end_date, created_at, updated_at
		FROM employee_schedule_assignments
		WHERE employee_id = $1
		  AND start_date <= $2::date
		  AND (end_date IS NULL OR end_date >= $2::date)
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1
	`

	var a schedule.ScheduleAssignment
	err := q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")).Scan(
		&a.ID,
		&a.EmployeeID,
		&a.WorkScheduleID,
		&a.ShiftName,
		&a.EffectiveDate,
		&a.EndDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get effective schedule assignment: %w", err)
	}

	return &a, nil
}

func NewScheduleAssignmentRepository(db *database.DB) schedule.ScheduleAssignmentRepository {
	return &scheduleAssignmentRepository{db: db}
}
