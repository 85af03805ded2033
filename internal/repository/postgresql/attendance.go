package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, subject_id, agency_id, date, check_in_time, check_out_time,
	schedule_id, schedule_entry_minute, schedule_exit_minute, schedule_grace_period_minutes,
	status, late_minutes, early_leave_minutes, worked_minutes,
	method_in, method_out, notes, created_at, updated_at
`

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		a                   attendance.Attendance
		entry, exit, grace  int32
		status              string
		methodIn, methodOut *string
	)
	err := row.Scan(
		&a.ID, &a.SubjectID, &a.AgencyID, &a.Date, &a.CheckInTime, &a.CheckOutTime,
		&a.ScheduleID, &entry, &exit, &grace,
		&status, &a.LateMinutes, &a.EarlyLeaveMinutes, &a.WorkedMinutes,
		&methodIn, &methodOut, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	a.Date = attendance.DateOf(a.Date)
	a.ScheduleEntryTime = schedule.ClockTime(entry)
	a.ScheduleExitTime = schedule.ClockTime(exit)
	a.ScheduleGracePeriodMinutes = int(grace)
	a.Status = attendance.Status(status)
	a.MethodIn = toMethod(methodIn)
	a.MethodOut = toMethod(methodOut)
	return a, nil
}

func toMethod(s *string) *attendance.Method {
	if s == nil {
		return nil
	}
	m := attendance.Method(*s)
	return &m
}

func fromMethod(m *attendance.Method) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

// Create implements attendance.AttendanceRepository. The unique constraint on
// (subject_id, date) decides concurrent check-ins; the loser gets no row back.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, subject_id, agency_id, date, check_in_time,
			schedule_id, schedule_entry_minute, schedule_exit_minute, schedule_grace_period_minutes,
			status, late_minutes, method_in, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT ON CONSTRAINT uq_attendances_subject_date DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.SubjectID, a.AgencyID, a.Date, a.CheckInTime,
		a.ScheduleID, int(a.ScheduleEntryTime), int(a.ScheduleExitTime), a.ScheduleGracePeriodMinutes,
		string(a.Status), a.LateMinutes, fromMethod(a.MethodIn), a.Notes, a.CreatedAt, a.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetBySubjectAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetBySubjectAndDate(ctx context.Context, subjectID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE subject_id = $1 AND date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, subjectID, attendance.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) CheckOut(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out_time = $2, method_out = $3, worked_minutes = $4,
		    early_leave_minutes = $5, notes = $6, updated_at = $7
		WHERE id = $1 AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.CheckOutTime, fromMethod(a.MethodOut), a.WorkedMinutes,
		a.EarlyLeaveMinutes, a.Notes, a.UpdatedAt,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, fmt.Errorf("failed to check out attendance: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attendances WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE agency_id = $1
		  AND date BETWEEN $2 AND $3
		  AND ($4::text IS NULL OR subject_id = $4)
		ORDER BY date, subject_id
	`
	return r.list(ctx, query, filter.AgencyID, attendance.DateOf(filter.StartDate), attendance.DateOf(filter.EndDate), filter.SubjectID)
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		  AND date < $1
		ORDER BY date, subject_id
	`
	return r.list(ctx, query, attendance.DateOf(date))
}

func (r *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}
