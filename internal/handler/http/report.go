package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
	now           func() time.Time
}

func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &reportHandlerImpl{
		reportService: reportService,
		loc:           loc,
		now:           time.Now,
	}
}

// Dashboard implements ReportHandler. Without a period the current month
// up to today is reported.
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.DashboardRequest{
		AgencyID:  actor.AgencyID(),
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	}
	if req.StartDate == "" && req.EndDate == "" {
		today := h.now().In(h.loc)
		req.StartDate = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		req.EndDate = today.Format("2006-01-02")
	}

	dashboard, err := h.reportService.Dashboard(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, dashboard)
}
