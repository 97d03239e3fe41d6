package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type dailyTimeRecordRepository struct {
	db *database.DB
}

const dailyTimeRecordColumns = `
	id, employee_id, date, work_schedule_id, shift_name, status,
	first_in, last_out, required_minutes, total_work_minutes, total_break_minutes,
	late_minutes, undertime_minutes, overtime_minutes, overtime_approved, night_diff_minutes,
	remarks, needs_review, review_reason, computed_at, created_at, updated_at
`

func scanDailyTimeRecord(row pgx.Row) (attendance.DailyTimeRecord, error) {
	var r attendance.DailyTimeRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.WorkScheduleID, &r.ShiftName, &r.Status,
		&r.FirstIn, &r.LastOut, &r.RequiredMinutes, &r.TotalWorkMinutes, &r.TotalBreakMinutes,
		&r.LateMinutes, &r.UndertimeMinutes, &r.OvertimeMinutes, &r.OvertimeApproved, &r.NightDiffMinutes,
		&r.Remarks, &r.NeedsReview, &r.ReviewReason, &r.ComputedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Save implements attendance.DailyTimeRecordRepository.
// The whole replace runs in one transaction holding an advisory lock on the
// (employee, date) key, so concurrent recomputes of one day serialize.
func (d *dailyTimeRecordRepository) Save(ctx context.Context, record attendance.DailyTimeRecord, punches []attendance.PunchRecord) (attendance.DailyTimeRecord, error) {
	date := record.Date.Format("2006-01-02")

	err := WithTransaction(ctx, d.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)

		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, record.EmployeeID+"|"+date); err != nil {
			return fmt.Errorf("failed to acquire record lock: %w", err)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate record id: %w", err)
		}

		query := `
			INSERT INTO daily_time_records (
				id, employee_id, date, work_schedule_id, shift_name, status,
				first_in, last_out, required_minutes, total_work_minutes, total_break_minutes,
				late_minutes, undertime_minutes, overtime_minutes, night_diff_minutes,
				remarks, needs_review, review_reason, computed_at
			) VALUES (
				$1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
			)
			ON CONFLICT (employee_id, date) DO UPDATE SET
				work_schedule_id = EXCLUDED.work_schedule_id,
				shift_name = EXCLUDED.shift_name,
				status = EXCLUDED.status,
				first_in = EXCLUDED.first_in,
				last_out = EXCLUDED.last_out,
				required_minutes = EXCLUDED.required_minutes,
				total_work_minutes = EXCLUDED.total_work_minutes,
				total_break_minutes = EXCLUDED.total_break_minutes,
				late_minutes = EXCLUDED.late_minutes,
				undertime_minutes = EXCLUDED.undertime_minutes,
				overtime_minutes = EXCLUDED.overtime_minutes,
				night_diff_minutes = EXCLUDED.night_diff_minutes,
				remarks = EXCLUDED.remarks,
				needs_review = EXCLUDED.needs_review,
				review_reason = EXCLUDED.review_reason,
				computed_at = EXCLUDED.computed_at,
				updated_at = NOW()
			RETURNING id, overtime_approved, created_at, updated_at
		`

		err = tx.QueryRow(ctx, query,
			id.String(),
			record.EmployeeID,
			date,
			record.WorkScheduleID,
			record.ShiftName,
			string(record.Status),
			record.FirstIn,
			record.LastOut,
			record.RequiredMinutes,
			record.TotalWorkMinutes,
			record.TotalBreakMinutes,
			record.LateMinutes,
			record.UndertimeMinutes,
			record.OvertimeMinutes,
			record.NightDiffMinutes,
			record.Remarks,
			record.NeedsReview,
			record.ReviewReason,
			record.ComputedAt,
		).Scan(&record.ID, &record.OvertimeApproved, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert daily time record: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM punch_records WHERE daily_time_record_id = $1`, record.ID); err != nil {
			return fmt.Errorf("failed to delete punch records: %w", err)
		}

		record.Punches, err = insertPunchRecords(txCtx, GetQuerier(txCtx, d.db), record.ID, punches)
		return err
	})
	if err != nil {
		return attendance.DailyTimeRecord{}, err
	}

	return record, nil
}

func insertPunchRecords(ctx context.Context, q database.Querier, recordID string, punches []attendance.PunchRecord) ([]attendance.PunchRecord, error) {
	saved := make([]attendance.PunchRecord, 0, len(punches))
	if len(punches) == 0 {
		return saved, nil
	}

	valueStrings := make([]string, 0, len(punches))
	valueArgs := make([]interface{}, 0, len(punches)*5)

	for i, p := range punches {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate punch id: %w", err)
		}
		p.ID = id.String()
		p.DailyTimeRecordID = recordID

		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		valueArgs = append(valueArgs, p.ID, p.DailyTimeRecordID, p.ScanEventID, string(p.PunchType), p.PunchedAt)
		saved = append(saved, p)
	}

	query := fmt.Sprintf(`
		INSERT INTO punch_records (id, daily_time_record_id, scan_event_id, punch_type, punched_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return nil, fmt.Errorf("failed to insert punch records: %w", err)
	}
	return saved, nil
}

// GetByEmployeeAndDate implements attendance.DailyTimeRecordRepository.
func (d *dailyTimeRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyTimeRecord, error) {
	q := GetQuerier(ctx, d.db)

	query := `SELECT ` + dailyTimeRecordColumns + `
		FROM daily_time_records
		WHERE employee_id = $1 AND date = $2::date
	`

	record, err := scanDailyTimeRecord(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily time record: %w", err)
	}

	punches, err := d.listPunches(ctx, []string{record.ID})
	if err != nil {
		return nil, err
	}
	record.Punches = punches[record.ID]
	return &record, nil
}

// ListByEmployeeBetween implements attendance.DailyTimeRecordRepository.
func (d *dailyTimeRecordRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyTimeRecord, error) {
	q := GetQuerier(ctx, d.db)

	query := `SELECT ` + dailyTimeRecordColumns + `
		FROM daily_time_records
		WHERE employee_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list daily time records: %w", err)
	}
	defer rows.Close()

	var records []attendance.DailyTimeRecord
	var ids []string
	for rows.Next() {
		record, err := scanDailyTimeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily time record: %w", err)
		}
		records = append(records, record)
		ids = append(ids, record.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	punches, err := d.listPunches(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Punches = punches[records[i].ID]
	}
	return records, nil
}

func (d *dailyTimeRecordRepository) listPunches(ctx context.Context, recordIDs []string) (map[string][]attendance.PunchRecord, error) {
	byRecord := make(map[string][]attendance.PunchRecord, len(recordIDs))
	if len(recordIDs) == 0 {
		return byRecord, nil
	}

	q := GetQuerier(ctx, d.db)
	query := `
		SELECT id, daily_time_record_id, scan_event_id, punch_type, punched_at
		FROM punch_records
		WHERE daily_time_record_id = ANY($1::uuid[])
		ORDER BY punched_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, recordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p attendance.PunchRecord
		if err := rows.Scan(&p.ID, &p.DailyTimeRecordID, &p.ScanEventID, &p.PunchType, &p.PunchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch record: %w", err)
		}
		byRecord[p.DailyTimeRecordID] = append(byRecord[p.DailyTimeRecordID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return byRecord, nil
}

func NewDailyTimeRecordRepository(db *database.DB) attendance.DailyTimeRecordRepository {
	return &dailyTimeRecordRepository{db: db}
}
