package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/validator"
)

// ========================================
// DTR CALCULATION DTOs
// ========================================

type CalculateRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CalculateRangeRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

func (r *CalculateRangeRequest) Validate() error {
	return validateEmployeeRange(r.EmployeeID, r.StartDate, r.EndDate)
}

// RecordFilter selects stored records of one employee.
type RecordFilter struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

func (f *RecordFilter) Validate() error {
	return validateEmployeeRange(f.EmployeeID, f.StartDate, f.EndDate)
}

func validateEmployeeRange(employeeID, startDate, endDate string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	start, startValid := validator.IsValidDate(startDate)
	if !startValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endValid := validator.IsValidDate(endDate)
	if !endValid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startValid && endValid && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	ScanEventID string `json:"scan_event_id"`
	PunchType   string `json:"punch_type"`
	PunchedAt   string `json:"punched_at"`
}

type DailyTimeRecordResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Date              string          `json:"date"`
	WorkScheduleID    *string         `json:"work_schedule_id,omitempty"`
	ShiftName         *string         `json:"shift_name,omitempty"`
	Status            string          `json:"status"`
	FirstIn           *string         `json:"first_in,omitempty"`
	LastOut           *string         `json:"last_out,omitempty"`
	RequiredMinutes   int             `json:"required_minutes"`
	TotalWorkMinutes  int             `json:"total_work_minutes"`
	TotalBreakMinutes int             `json:"total_break_minutes"`
	LateMinutes       int             `json:"late_minutes"`
	UndertimeMinutes  int             `json:"undertime_minutes"`
	OvertimeMinutes   int             `json:"overtime_minutes"`
	OvertimeApproved  bool            `json:"overtime_approved"`
	NightDiffMinutes  int             `json:"night_diff_minutes"`
	Remarks           *string         `json:"remarks,omitempty"`
	NeedsReview       bool            `json:"needs_review"`
	ReviewReason      *string         `json:"review_reason,omitempty"`
	ComputedAt        string          `json:"computed_at"`
	Punches           []PunchResponse `json:"punches"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// ToResponse maps a record onto its API shape.
func ToResponse(r DailyTimeRecord) DailyTimeRecordResponse {
	punches := make([]PunchResponse, 0, len(r.Punches))
	for _, p := range r.Punches {
		punches = append(punches, PunchResponse{
			ScanEventID: p.ScanEventID,
			PunchType:   string(p.PunchType),
			PunchedAt:   p.PunchedAt.Format(time.RFC3339),
		})
	}

	return DailyTimeRecordResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Date:              r.Date.Format("2006-01-02"),
		WorkScheduleID:    r.WorkScheduleID,
		ShiftName:         r.ShiftName,
		Status:            string(r.Status),
		FirstIn:           timePtrToString(r.FirstIn),
		LastOut:           timePtrToString(r.LastOut),
		RequiredMinutes:   r.RequiredMinutes,
		TotalWorkMinutes:  r.TotalWorkMinutes,
		TotalBreakMinutes: r.TotalBreakMinutes,
		LateMinutes:       r.LateMinutes,
		UndertimeMinutes:  r.UndertimeMinutes,
		OvertimeMinutes:   r.OvertimeMinutes,
		OvertimeApproved:  r.OvertimeApproved,
		NightDiffMinutes:  r.NightDiffMinutes,
		Remarks:           r.Remarks,
		NeedsReview:       r.NeedsReview,
		ReviewReason:      r.ReviewReason,
		ComputedAt:        r.ComputedAt.Format(time.RFC3339),
		Punches:           punches,
	}
}
