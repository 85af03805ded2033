package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// manualClockSkew is how far in the future a manual timestamp may lie.
const manualClockSkew = time.Minute

// ScheduleResolver finds the schedule governing a subject on a date.
type ScheduleResolver interface {
	ResolveApplicableSchedule(ctx context.Context, subjectID string, date time.Time) (schedule.Schedule, error)
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	subjectRepo    subject.SubjectRepository
	resolver       ScheduleResolver
	loc            *time.Location
	now            func() time.Time
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	if _, err := a.activeSubject(ctx, req.SubjectID, req.AgencyID); err != nil {
		return attendance.Attendance{}, err
	}

	local := req.Timestamp.In(a.loc)
	actual := schedule.ClockOf(local)

	date, sched, nextDay, err := a.shiftFor(ctx, req.SubjectID, local)
	if err != nil {
		return attendance.Attendance{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	checkIn := req.Timestamp.UTC()
	method := req.Method
	scheduleID := sched.ID
	now := a.now().UTC()

	record := attendance.Attendance{
		ID:                         id.String(),
		SubjectID:                  req.SubjectID,
		AgencyID:                   req.AgencyID,
		Date:                       date,
		CheckInTime:                &checkIn,
		ScheduleID:                 &scheduleID,
		ScheduleEntryTime:          sched.EntryTime,
		ScheduleExitTime:           sched.ExitTime,
		ScheduleGracePeriodMinutes: sched.GracePeriodMinutes,
		Status:                     attendance.Classify(sched.EntryTime, actual, sched.GracePeriodMinutes, nextDay),
		LateMinutes:                attendance.LateMinutes(sched.EntryTime, actual, nextDay),
		MethodIn:                   &method,
		Notes:                      req.Notes,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	created, err := a.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("Checked in",
		"user_id", created.SubjectID,
		"agency_id", created.AgencyID,
		"date", created.Date.Format("2006-01-02"),
		"status", created.Status,
		"late_minutes", created.LateMinutes,
	)
	return created, nil
}

// shiftFor picks the calendar day and schedule a check-in at local belongs to.
// An arrival after midnight that falls inside the previous day's overnight
// shift is dated to that day while the day has no record yet, and conflicts
// with that day's record while it is still open. nextDay reports that the
// arrival lies a day after the shift's entry.
func (a *AttendanceServiceImpl) shiftFor(ctx context.Context, subjectID string, local time.Time) (time.Time, schedule.Schedule, bool, error) {
	today := attendance.DateOf(local)
	actual := schedule.ClockOf(local)

	yesterday := today.AddDate(0, 0, -1)
	previous, err := a.resolver.ResolveApplicableSchedule(ctx, subjectID, yesterday)
	switch {
	case err == nil && previous.Window(schedule.WeekdayOf(yesterday)).IsNextDayClock(actual):
		record, err := a.attendanceRepo.GetBySubjectAndDate(ctx, subjectID, yesterday)
		switch {
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			return yesterday, previous, true, nil
		case err != nil:
			return time.Time{}, schedule.Schedule{}, false, fmt.Errorf("failed to get attendance: %w", err)
		case record.IsOpen():
			return time.Time{}, schedule.Schedule{}, false, attendance.ErrAlreadyCheckedIn
		}
	case err != nil && !errors.Is(err, schedule.ErrNoApplicableSchedule):
		return time.Time{}, schedule.Schedule{}, false, resolveError(err)
	}

	sched, err := a.resolver.ResolveApplicableSchedule(ctx, subjectID, today)
	if err != nil {
		return time.Time{}, schedule.Schedule{}, false, resolveError(err)
	}
	return today, sched, false, nil
}

func resolveError(err error) error {
	switch {
	case errors.Is(err, schedule.ErrNoApplicableSchedule):
		return attendance.ErrNoScheduleFound
	case errors.Is(err, subject.ErrSubjectNotFound):
		return err
	default:
		return fmt.Errorf("failed to resolve schedule: %w", err)
	}
}

// CheckOut implements attendance.AttendanceService. A record of the previous
// day is closed instead when its shift runs overnight and it is still open.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	if _, err := a.activeSubject(ctx, req.SubjectID, req.AgencyID); err != nil {
		return attendance.Attendance{}, err
	}

	local := req.Timestamp.In(a.loc)
	record, err := a.openRecord(ctx, req.SubjectID, attendance.DateOf(local))
	if err != nil {
		return attendance.Attendance{}, err
	}

	checkOut := req.Timestamp.UTC()
	if checkOut.Before(*record.CheckInTime) {
		var errs validator.ValidationErrors
		errs.Add("timestamp", "checkout time must not be before check-in time")
		return attendance.Attendance{}, errs
	}

	worked := int(checkOut.Sub(*record.CheckInTime).Minutes())
	early := attendance.EarlyLeaveMinutes(record.ScheduledExitAt(a.loc), checkOut)
	method := req.Method

	record.CheckOutTime = &checkOut
	record.MethodOut = &method
	record.WorkedMinutes = &worked
	record.EarlyLeaveMinutes = &early
	record.Notes = appendNotes(record.Notes, req.Notes)
	record.UpdatedAt = a.now().UTC()

	updated, err := a.attendanceRepo.CheckOut(ctx, record)
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("Checked out",
		"user_id", updated.SubjectID,
		"agency_id", updated.AgencyID,
		"date", updated.Date.Format("2006-01-02"),
		"worked_minutes", worked,
	)
	return updated, nil
}

// openRecord finds the record a checkout on date closes.
func (a *AttendanceServiceImpl) openRecord(ctx context.Context, subjectID string, date time.Time) (attendance.Attendance, error) {
	record, err := a.attendanceRepo.GetBySubjectAndDate(ctx, subjectID, date)
	switch {
	case err == nil && record.IsOpen():
		return record, nil
	case err == nil:
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	previous, err := a.attendanceRepo.GetBySubjectAndDate(ctx, subjectID, date.AddDate(0, 0, -1))
	if err == nil && previous.IsOpen() && previous.IsOvernight() {
		return previous, nil
	}
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return attendance.Attendance{}, attendance.ErrNotCheckedIn
}

// RecordManual implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordManual(ctx context.Context, req attendance.ManualRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	now := a.now()
	at := req.At
	if at.IsZero() {
		at = now
	}
	if at.After(now.Add(manualClockSkew)) {
		var errs validator.ValidationErrors
		errs.Add("timestamp", "timestamp must not be in the future")
		return attendance.Attendance{}, errs
	}

	slog.Info("Recording manual attendance", "user_id", req.SubjectID, "agency_id", req.AgencyID, "type", req.Type)

	switch req.Type {
	case attendance.EntryCheckIn:
		return a.CheckIn(ctx, attendance.CheckInRequest{
			SubjectID: req.SubjectID,
			AgencyID:  req.AgencyID,
			Timestamp: at,
			Method:    attendance.MethodManual,
			Notes:     req.Notes,
		})
	default:
		return a.CheckOut(ctx, attendance.CheckOutRequest{
			SubjectID: req.SubjectID,
			AgencyID:  req.AgencyID,
			Timestamp: at,
			Method:    attendance.MethodManual,
			Notes:     req.Notes,
		})
	}
}

// Query implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Query(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	records, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// Today implements attendance.AttendanceService. Past midnight an overnight
// shift still open from the previous day counts as today's record.
func (a *AttendanceServiceImpl) Today(ctx context.Context, subjectID string, now time.Time) (attendance.Attendance, error) {
	date := attendance.DateOf(now.In(a.loc))
	record, err := a.attendanceRepo.GetBySubjectAndDate(ctx, subjectID, date)
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return record, err
	}

	previous, prevErr := a.attendanceRepo.GetBySubjectAndDate(ctx, subjectID, date.AddDate(0, 0, -1))
	if prevErr == nil && previous.IsOpen() && previous.IsOvernight() {
		return previous, nil
	}
	return attendance.Attendance{}, err
}

// activeSubject loads the subject and checks it may record attendance for agencyID.
func (a *AttendanceServiceImpl) activeSubject(ctx context.Context, subjectID, agencyID string) (subject.Subject, error) {
	subj, err := a.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return subject.Subject{}, err
	}
	if subj.AgencyID != agencyID {
		return subject.Subject{}, subject.ErrSubjectNotFound
	}
	if !subj.CanRecordAttendance() {
		return subject.Subject{}, subject.ErrSubjectNotActive
	}
	return subj, nil
}

func appendNotes(existing, added string) string {
	switch {
	case added == "":
		return existing
	case existing == "":
		return added
	default:
		return existing + attendance.NotesSeparator + added
	}
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	subjectRepository subject.SubjectRepository,
	resolver ScheduleResolver,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepository,
		subjectRepo:    subjectRepository,
		resolver:       resolver,
		loc:            loc,
		now:            time.Now,
	}
}
