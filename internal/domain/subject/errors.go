package subject

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"

var (
	ErrSubjectNotFound     = apperr.NotFound("user not found")
	ErrSubjectNotActive    = apperr.Unprocessable("user is not active and cannot record attendance")
	ErrSubjectAgencyChange = apperr.Conflict("user already belongs to another agency")
	ErrAlreadyActive       = apperr.Conflict("user is already active")
	ErrSubjectInactive     = apperr.Conflict("inactive users cannot be activated")
)
