package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/database"
)

type scanEventRepository struct {
	db *database.DB
}

// ListByEmployeeBetween implements attendance.ScanEventRepository.
func (s *scanEventRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.ScanEvent, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, employee_id, logged_at, raw_direction
		FROM attendance_scans
		WHERE employee_id = $1
		  AND logged_at BETWEEN $2 AND $3
		ORDER BY logged_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan events: %w", err)
	}
	defer rows.Close()

	var scans []attendance.ScanEvent
	for rows.Next() {
		var scan attendance.ScanEvent
		if err := rows.Scan(&scan.ID, &scan.EmployeeID, &scan.LoggedAt, &scan.RawDirection); err != nil {
			return nil, fmt.Errorf("failed to scan scan event: %w", err)
		}
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return scans, nil
}

func NewScanEventRepository(db *database.DB) attendance.ScanEventRepository {
	return &scanEventRepository{db: db}
}
