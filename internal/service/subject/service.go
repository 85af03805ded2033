package subject

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/activation"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
)

type subjectServiceImpl struct {
	subjectRepo subject.SubjectRepository
	now         func() time.Time
}

// UpsertSubject implements subject.SubjectService.
func (s *subjectServiceImpl) UpsertSubject(ctx context.Context, req subject.UpsertSubjectRequest) (subject.SubjectResponse, error) {
	if err := req.Validate(); err != nil {
		return subject.SubjectResponse{}, err
	}

	now := s.now().UTC()
	record := subject.Subject{
		ID:        req.ID,
		AgencyID:  req.AgencyID,
		Name:      req.Name,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := s.subjectRepo.GetByID(ctx, req.ID)
	switch {
	case err == nil:
		if existing.AgencyID != req.AgencyID {
			return subject.SubjectResponse{}, subject.ErrSubjectAgencyChange
		}
		record.CreatedAt = existing.CreatedAt
	case !errors.Is(err, subject.ErrSubjectNotFound):
		return subject.SubjectResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	saved, err := s.subjectRepo.Upsert(ctx, record)
	if err != nil {
		return subject.SubjectResponse{}, err
	}

	slog.Info("User saved", "user_id", saved.ID, "agency_id", saved.AgencyID, "status", saved.Status)
	return subject.NewSubjectResponse(saved), nil
}

// GetSubject implements subject.SubjectService.
func (s *subjectServiceImpl) GetSubject(ctx context.Context, agencyID string, id string) (subject.SubjectResponse, error) {
	found, err := s.get(ctx, agencyID, id)
	if err != nil {
		return subject.SubjectResponse{}, err
	}
	return subject.NewSubjectResponse(found), nil
}

// ListSubjects implements subject.SubjectService.
func (s *subjectServiceImpl) ListSubjects(ctx context.Context, agencyID string) ([]subject.SubjectResponse, error) {
	subjects, err := s.subjectRepo.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]subject.SubjectResponse, 0, len(subjects))
	for _, subj := range subjects {
		responses = append(responses, subject.NewSubjectResponse(subj))
	}
	return responses, nil
}

// ActivateSubject implements subject.SubjectService.
func (s *subjectServiceImpl) ActivateSubject(ctx context.Context, agencyID string, id string) (subject.ActivationResponse, error) {
	state := activation.Start()

	found, err := s.get(ctx, agencyID, id)
	if err != nil {
		return subject.ActivationResponse{}, err
	}
	if state, err = activation.Loaded(state, found.ID); err != nil {
		return subject.ActivationResponse{}, err
	}

	var rejection error
	switch found.Status {
	case subject.StatusActive:
		rejection = subject.ErrAlreadyActive
	case subject.StatusInactive:
		rejection = subject.ErrSubjectInactive
	}
	if rejection != nil {
		state, _ = activation.Fail(state, rejection.Error())
		return activationResponse(state, nil), rejection
	}

	found.Status = subject.StatusActive
	found.UpdatedAt = s.now().UTC()
	saved, err := s.subjectRepo.Upsert(ctx, found)
	if err != nil {
		state, _ = activation.Fail(state, "activation could not be saved")
		return activationResponse(state, nil), fmt.Errorf("failed to activate user: %w", err)
	}

	state, err = activation.Submit(state)
	if err != nil {
		return subject.ActivationResponse{}, err
	}

	slog.Info("User activated", "user_id", saved.ID, "agency_id", saved.AgencyID)
	return activationResponse(state, &saved), nil
}

func (s *subjectServiceImpl) get(ctx context.Context, agencyID string, id string) (subject.Subject, error) {
	found, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return subject.Subject{}, err
	}
	if found.AgencyID != agencyID {
		return subject.Subject{}, subject.ErrSubjectNotFound
	}
	return found, nil
}

func activationResponse(state activation.State, saved *subject.Subject) subject.ActivationResponse {
	resp := subject.ActivationResponse{State: state.Name()}
	switch st := state.(type) {
	case activation.Success:
		resp.Message = "user activated"
	case activation.Failed:
		resp.Message = st.Reason
	}
	if saved != nil {
		r := subject.NewSubjectResponse(*saved)
		resp.Subject = &r
	}
	return resp
}

func NewSubjectService(subjectRepo subject.SubjectRepository) subject.SubjectService {
	return &subjectServiceImpl{
		subjectRepo: subjectRepo,
		now:         time.Now,
	}
}
