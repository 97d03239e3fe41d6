package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-dtr-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-dtr-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Period attendance summary of one employee
	GetPeriodSummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetPeriodSummary handles GET /dtr/summary
func (h *reportHandlerImpl) GetPeriodSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	query := r.URL.Query()
	req := report.PeriodSummaryRequest{
		EmployeeID: query.Get("employee_id"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.GetPeriodSummary(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
