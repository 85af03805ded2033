package report

import "context"

type ReportService interface {
	// Dashboard aggregates an agency's attendance over the requested period.
	Dashboard(ctx context.Context, req DashboardRequest) (DashboardResponse, error)
}
