package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, loc *time.Location) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		loc:            loc,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("report_stale_open_attendances", interval, j.ReportStaleOpenAttendances)
}

// ReportStaleOpenAttendances logs records still waiting for a checkout after
// the day that follows them has ended. Yesterday's records stay out of the
// report because overnight shifts close on the next calendar day. Agencies
// close stale records with a manual checkout.
func (j *AttendanceJobs) ReportStaleOpenAttendances(ctx context.Context) error {
	today := attendance.DateOf(j.now().In(j.loc))
	cutoff := today.AddDate(0, 0, -1)

	stale, err := j.attendanceRepo.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list open attendances: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	perAgency := make(map[string]int)
	for _, a := range stale {
		perAgency[a.AgencyID]++
		slog.Warn("Attendance still open",
			"attendance_id", a.ID,
			"user_id", a.SubjectID,
			"agency_id", a.AgencyID,
			"date", a.Date.Format("2006-01-02"),
		)
	}
	for agencyID, count := range perAgency {
		slog.Info("Cron: stale open attendances", "agency_id", agencyID, "count", count)
	}
	return nil
}
