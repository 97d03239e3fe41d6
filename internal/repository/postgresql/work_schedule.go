package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepositoryImpl struct {
	db *database.DB
}

// GetByID implements schedule.WorkScheduleRepository.
func (w *workScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, company_id, name, kind, time_config, grace_period_minutes,
			overtime_threshold_hours::float8, night_diff_enabled,
			to_char(night_diff_start, 'HH24:MI'), to_char(night_diff_end, 'HH24:MI'),
			created_at, updated_at
		FROM work_schedules
		WHERE id = $1 AND deleted_at IS NULL
	`

	var (
		ws                   schedule.WorkSchedule
		kind                 string
		rawConfig            []byte
		nightStart, nightEnd *string
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&ws.ID,
		&ws.CompanyID,
		&ws.Name,
		&kind,
		&rawConfig,
		&ws.GracePeriodMinutes,
		&ws.Overtime.DailyThresholdHours,
		&ws.NightDiff.Enabled,
		&nightStart,
		&nightEnd,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.WorkSchedule{}, fmt.Errorf("work schedule with id %s: %w", id, schedule.ErrWorkScheduleNotFound)
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule with id %s: %w", id, err)
	}

	ws.Kind = schedule.Kind(kind)
	ws.Config, err = schedule.DecodeTimeConfig(ws.Kind, rawConfig)
	if err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("failed to decode time config of work schedule %s: %w", id, err)
	}

	if ws.NightDiff.Start, err = parseOptionalTimeOfDay(nightStart); err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("invalid night differential start on work schedule %s: %w", id, err)
	}
	if ws.NightDiff.End, err = parseOptionalTimeOfDay(nightEnd); err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("invalid night differential end on work schedule %s: %w", id, err)
	}

	return ws, nil
}

func parseOptionalTimeOfDay(s *string) (*schedule.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	t, err := schedule.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}
