package subject

import "context"

type SubjectService interface {
	UpsertSubject(ctx context.Context, req UpsertSubjectRequest) (SubjectResponse, error)
	GetSubject(ctx context.Context, agencyID string, id string) (SubjectResponse, error)
	ListSubjects(ctx context.Context, agencyID string) ([]SubjectResponse, error)

	// ActivateSubject moves a PENDING subject to ACTIVE through the activation flow.
	ActivateSubject(ctx context.Context, agencyID string, id string) (ActivationResponse, error)
}
