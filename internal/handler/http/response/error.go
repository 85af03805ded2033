package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Field errors carry their details
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Domain errors carry their own message
	var domainErr *apperr.Error
	message := err.Error()
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	// Auth errors
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingActor),
		errors.Is(err, auth.ErrUnknownActorType):
		Unauthorized(w, "Invalid or missing token")
		return
	case errors.Is(err, auth.ErrAgencyOnly), errors.Is(err, auth.ErrUserOnly):
		Forbidden(w, err.Error())
		return
	}

	// Domain kinds
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		ValidationError(w, map[string]string{"request": message})
	case apperr.ErrNotFound:
		NotFound(w, message)
	case apperr.ErrConflict:
		Conflict(w, message)
	case apperr.ErrUnprocessable:
		UnprocessableState(w, message)
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
