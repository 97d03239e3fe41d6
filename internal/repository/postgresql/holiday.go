package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

// FindForDate implements schedule.HolidayRepository.
func (h *holidayRepositoryImpl) FindForDate(ctx context.Context, date time.Time, workLocationID *string) (*schedule.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, date, name, kind, is_national, branch_id
		FROM holidays
		WHERE date = $1::date
		  AND (is_national OR branch_id = $2)
		ORDER BY (kind = 'regular') DESC, is_national DESC
		LIMIT 1
	`

	var (
		holiday schedule.Holiday
		kind    string
	)
	err := q.QueryRow(ctx, query, date.Format("2006-01-02"), workLocationID).Scan(
		&holiday.ID,
		&holiday.Date,
		&holiday.Name,
		&kind,
		&holiday.IsNational,
		&holiday.WorkLocationID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find holiday: %w", err)
	}
	holiday.Kind = schedule.HolidayKind(kind)

	return &holiday, nil
}

func NewHolidayRepository(db *database.DB) schedule.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}
