package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-dtr-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDailyTimeRecordNotFound):
		NotFound(w, "Daily time record not found")
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrDateRangeTooLong):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrPeriodTooLong):
		BadRequest(w, err.Error(), nil)

	// Schedule domain errors
	case errors.Is(err, schedule.ErrInvalidTimeConfig),
		errors.Is(err, schedule.ErrUnknownScheduleKind),
		errors.Is(err, schedule.ErrWorkScheduleNotFound):
		InternalServerError(w, "Work schedule configuration is invalid: "+err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
