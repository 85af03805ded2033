package subject

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type UpsertSubjectRequest struct {
	ID       string `json:"-"`
	AgencyID string `json:"-"`
	Name     string `json:"name"`
	Status   Status `json:"status"`
}

func (r *UpsertSubjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if !validator.IsInSlice(string(r.Status), StatusValues) {
		errs.Add("status", "status must be one of: "+strings.Join(StatusValues, ", "))
	}

	return errs.Err()
}

type SubjectResponse struct {
	ID        string `json:"id"`
	AgencyID  string `json:"agencyId"`
	Name      string `json:"name"`
	Status    Status `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func NewSubjectResponse(s Subject) SubjectResponse {
	return SubjectResponse{
		ID:        s.ID,
		AgencyID:  s.AgencyID,
		Name:      s.Name,
		Status:    s.Status,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// ActivationResponse reports where the activation flow ended.
type ActivationResponse struct {
	State   string           `json:"state"`
	Message string           `json:"message,omitempty"`
	Subject *SubjectResponse `json:"user,omitempty"`
}
