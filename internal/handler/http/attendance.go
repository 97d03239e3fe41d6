package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-dtr-go/internal/handler/http/response"
)

type DTRHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	CalculateRange(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type dtrHandlerImpl struct {
	dtrService attendance.DTRService
}

func NewDTRHandler(dtrService attendance.DTRService) DTRHandler {
	return &dtrHandlerImpl{
		dtrService: dtrService,
	}
}

// Calculate handles POST /dtr/calculate
func (h *dtrHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req attendance.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dtrService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Daily time record computed", result)
}

// CalculateRange handles POST /dtr/calculate-range
func (h *dtrHandlerImpl) CalculateRange(w http.ResponseWriter, r *http.Request) {
	var req attendance.CalculateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dtrService.CalculateRange(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Daily time records computed", result)
}

// List handles GET /dtr
func (h *dtrHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.RecordFilter{
		EmployeeID: query.Get("employee_id"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dtrService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Count:     len(result),
	})
}
