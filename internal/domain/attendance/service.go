package attendance

import (
	"context"
	"time"
)

// AttendanceService records and reads attendance events.
type AttendanceService interface {
	// CheckIn creates the subject's record for the day of req.Timestamp.
	CheckIn(ctx context.Context, req CheckInRequest) (Attendance, error)

	// CheckOut closes the subject's open record for the day of req.Timestamp.
	CheckOut(ctx context.Context, req CheckOutRequest) (Attendance, error)

	// RecordManual dispatches to CheckIn or CheckOut with the MANUAL method.
	RecordManual(ctx context.Context, req ManualRequest) (Attendance, error)

	// Query returns the agency's records between two dates, both inclusive.
	Query(ctx context.Context, filter Filter) ([]Attendance, error)

	// Today returns the subject's record for the day of now.
	Today(ctx context.Context, subjectID string, now time.Time) (Attendance, error)
}
