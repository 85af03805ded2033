package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
)

type scheduleRepositoryImpl struct {
	mu        sync.RWMutex
	schedules map[string]schedule.Schedule
}

func NewScheduleRepository() schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{schedules: make(map[string]schedule.Schedule)}
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.IsDefault {
		r.clearDefault(s.AgencyID, s.ID)
	}
	stored := cloneSchedule(s)
	r.schedules[s.ID] = stored
	return cloneSchedule(stored), nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id string, agencyID string) (schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[id]
	if !ok || s.AgencyID != agencyID {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return cloneSchedule(s), nil
}

// ListByAgency implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListByAgency(ctx context.Context, agencyID string) ([]schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]schedule.Schedule, 0)
	for _, s := range r.schedules {
		if s.AgencyID == agencyID {
			list = append(list, cloneSchedule(s))
		}
	}
	slices.SortFunc(list, func(a, b schedule.Schedule) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
	return list, nil
}

// Update implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Update(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.schedules[s.ID]
	if !ok || current.AgencyID != s.AgencyID {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	if s.IsDefault {
		r.clearDefault(s.AgencyID, s.ID)
	}
	s.CreatedAt = current.CreatedAt
	stored := cloneSchedule(s)
	r.schedules[s.ID] = stored
	return cloneSchedule(stored), nil
}

// Delete implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Delete(ctx context.Context, id string, agencyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok || s.AgencyID != agencyID {
		return schedule.ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

// clearDefault must be called with mu held.
func (r *scheduleRepositoryImpl) clearDefault(agencyID, keepID string) {
	for id, other := range r.schedules {
		if other.AgencyID == agencyID && other.IsDefault && id != keepID {
			other.IsDefault = false
			r.schedules[id] = other
		}
	}
}

func cloneSchedule(s schedule.Schedule) schedule.Schedule {
	s.DaysOfWeek = slices.Clone(s.DaysOfWeek)
	s.AssignedSubjectIDs = slices.Clone(s.AssignedSubjectIDs)
	return s
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
