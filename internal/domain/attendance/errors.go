package attendance

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = apperr.Conflict("attendance already recorded for this subject on this date")
	ErrNotCheckedIn      = apperr.Conflict("no open attendance record for this subject on this date")
	ErrAlreadyCheckedOut = apperr.Conflict("attendance has already been checked out")
	ErrNoScheduleFound   = apperr.Unprocessable("no applicable schedule: assign a schedule before recording attendance")

	ErrAttendanceNotFound = apperr.NotFound("attendance record not found")
)
