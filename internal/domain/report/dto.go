package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const maxDashboardPeriod = 366 * 24 * time.Hour

type DashboardRequest struct {
	AgencyID  string `json:"-"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// Validate checks the period and resolves Start and End.
func (r *DashboardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AgencyID) {
		errs.Add("agencyId", "agencyId is required")
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("endDate", "endDate must not be before startDate")
		} else if end.Sub(start) > maxDashboardPeriod {
			errs.Add("endDate", "date range must not exceed 366 days")
		}
	}
	if len(errs) > 0 {
		return errs
	}

	r.Start, r.End = start, end
	return nil
}

// SubjectOverview counts an agency's subjects per status.
type SubjectOverview struct {
	Total              int `json:"total"`
	Active             int `json:"active"`
	Pending            int `json:"pending"`
	Inactive           int `json:"inactive"`
	ActivePercentage   int `json:"activePercentage"`
	PendingPercentage  int `json:"pendingPercentage"`
	InactivePercentage int `json:"inactivePercentage"`
}

type DashboardResponse struct {
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	PeriodDays     int             `json:"periodDays"`
	Summary        Summary         `json:"summary"`
	ByDate         []DailyBucket   `json:"byDate"`
	AttendanceRate int             `json:"attendanceRate"`
	Subjects       SubjectOverview `json:"users"`
}
