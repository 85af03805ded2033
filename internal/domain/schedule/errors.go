package schedule

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrScheduleNotFound      = apperr.NotFound("schedule not found")
	ErrNoApplicableSchedule  = apperr.NotFound("no applicable schedule for this subject and date")
	ErrScheduleInUse         = apperr.Conflict("schedule is the only schedule of an active subject and no default schedule can take over")
	ErrDefaultScheduleExists = apperr.Conflict("agency already has a default schedule")
)
