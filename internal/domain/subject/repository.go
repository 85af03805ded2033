package subject

import "context"

type SubjectRepository interface {
	// Upsert creates the subject or updates its name and status. The agency of an
	// existing subject never changes.
	Upsert(ctx context.Context, subject Subject) (Subject, error)
	GetByID(ctx context.Context, id string) (Subject, error)
	ListByAgency(ctx context.Context, agencyID string) ([]Subject, error)
}
