package report

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	subjectRepo    subject.SubjectRepository
}

// Dashboard implements report.ReportService.
func (r *ReportServiceImpl) Dashboard(ctx context.Context, req report.DashboardRequest) (report.DashboardResponse, error) {
	if err := req.Validate(); err != nil {
		return report.DashboardResponse{}, err
	}

	records, err := r.attendanceRepo.List(ctx, attendance.Filter{
		AgencyID:  req.AgencyID,
		StartDate: req.Start,
		EndDate:   req.End,
	})
	if err != nil {
		return report.DashboardResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	subjects, err := r.subjectRepo.ListByAgency(ctx, req.AgencyID)
	if err != nil {
		return report.DashboardResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	overview := subjectOverview(subjects)
	periodDays := report.PeriodDays(req.Start, req.End)

	return report.DashboardResponse{
		StartDate:      req.Start.Format("2006-01-02"),
		EndDate:        req.End.Format("2006-01-02"),
		PeriodDays:     periodDays,
		Summary:        report.Summarize(records),
		ByDate:         report.GroupByDate(records),
		AttendanceRate: report.AttendanceRate(len(records), overview.Active, periodDays),
		Subjects:       overview,
	}, nil
}

func subjectOverview(subjects []subject.Subject) report.SubjectOverview {
	var o report.SubjectOverview
	for _, s := range subjects {
		o.Total++
		switch s.Status {
		case subject.StatusActive:
			o.Active++
		case subject.StatusPending:
			o.Pending++
		case subject.StatusInactive:
			o.Inactive++
		}
	}
	o.ActivePercentage = report.Percentage(o.Active, o.Total)
	o.PendingPercentage = report.Percentage(o.Pending, o.Total)
	o.InactivePercentage = report.Percentage(o.Inactive, o.Total)
	return o
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, subjectRepo subject.SubjectRepository) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		subjectRepo:    subjectRepo,
	}
}
