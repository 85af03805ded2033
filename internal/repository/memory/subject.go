package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
)

type subjectRepositoryImpl struct {
	mu       sync.RWMutex
	subjects map[string]subject.Subject
}

func NewSubjectRepository() subject.SubjectRepository {
	return &subjectRepositoryImpl{subjects: make(map[string]subject.Subject)}
}

// Upsert implements subject.SubjectRepository.
func (r *subjectRepositoryImpl) Upsert(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.subjects[s.ID]; ok {
		if existing.AgencyID != s.AgencyID {
			return subject.Subject{}, subject.ErrSubjectAgencyChange
		}
		s.CreatedAt = existing.CreatedAt
	}
	r.subjects[s.ID] = s
	return s, nil
}

// GetByID implements subject.SubjectRepository.
func (r *subjectRepositoryImpl) GetByID(ctx context.Context, id string) (subject.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.subjects[id]
	if !ok {
		return subject.Subject{}, subject.ErrSubjectNotFound
	}
	return s, nil
}

// ListByAgency implements subject.SubjectRepository.
func (r *subjectRepositoryImpl) ListByAgency(ctx context.Context, agencyID string) ([]subject.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]subject.Subject, 0)
	for _, s := range r.subjects {
		if s.AgencyID == agencyID {
			list = append(list, s)
		}
	}
	slices.SortFunc(list, func(a, b subject.Subject) int { return compareStrings(a.ID, b.ID) })
	return list, nil
}
