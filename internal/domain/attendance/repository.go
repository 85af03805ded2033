package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a new record. The store enforces one record per subject and
	// date and returns ErrAlreadyCheckedIn when the pair already exists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetBySubjectAndDate returns ErrAttendanceNotFound when no record exists.
	GetBySubjectAndDate(ctx context.Context, subjectID string, date time.Time) (Attendance, error)

	// CheckOut stores the checkout fields only while the record is still open and
	// returns ErrAlreadyCheckedOut otherwise.
	CheckOut(ctx context.Context, attendance Attendance) (Attendance, error)

	// List returns records ordered by date then subject id.
	List(ctx context.Context, filter Filter) ([]Attendance, error)

	// ListOpenBefore returns records still open whose date is before date.
	ListOpenBefore(ctx context.Context, date time.Time) ([]Attendance, error)
}

// Filter selects records of one agency within an inclusive date range.
type Filter struct {
	AgencyID  string
	StartDate time.Time
	EndDate   time.Time
	SubjectID *string
}
