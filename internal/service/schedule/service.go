package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
	subjectRepo  subject.SubjectRepository
	cache        cache.Cache
	cacheTTL     time.Duration
	now          func() time.Time
}

// CreateSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) CreateSchedule(ctx context.Context, agencyID string, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	newSchedule, err := req.Validate()
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.checkAssignees(ctx, agencyID, newSchedule.AssignedSubjectIDs); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to generate schedule id: %w", err)
	}
	now := s.now().UTC()
	newSchedule.ID = id.String()
	newSchedule.AgencyID = agencyID
	newSchedule.CreatedAt = now
	newSchedule.UpdatedAt = now

	created, err := s.scheduleRepo.Create(ctx, newSchedule)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	s.invalidate(ctx, agencyID)

	slog.Info("Schedule created", "agency_id", agencyID, "schedule_id", created.ID, "is_default", created.IsDefault)
	return schedule.NewScheduleResponse(created), nil
}

// GetSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, agencyID string, id string) (schedule.ScheduleResponse, error) {
	found, err := s.scheduleRepo.GetByID(ctx, id, agencyID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return schedule.NewScheduleResponse(found), nil
}

// ListSchedules implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ListSchedules(ctx context.Context, agencyID string) ([]schedule.ScheduleResponse, error) {
	schedules, err := s.listByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		responses = append(responses, schedule.NewScheduleResponse(sc))
	}
	return responses, nil
}

// UpdateSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) UpdateSchedule(ctx context.Context, agencyID string, id string, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	current, err := s.scheduleRepo.GetByID(ctx, id, agencyID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	patched, err := req.Apply(current)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if req.AssignedSubjectIDs != nil {
		if err := s.checkAssignees(ctx, agencyID, patched.AssignedSubjectIDs); err != nil {
			return schedule.ScheduleResponse{}, err
		}
	}
	patched.UpdatedAt = s.now().UTC()

	updated, err := s.scheduleRepo.Update(ctx, patched)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	s.invalidate(ctx, agencyID)

	slog.Info("Schedule updated", "agency_id", agencyID, "schedule_id", updated.ID, "is_default", updated.IsDefault)
	return schedule.NewScheduleResponse(updated), nil
}

// DeleteSchedule implements schedule.ScheduleService. The schedule cannot be
// removed while an active subject assigned to it would be left without any
// other assigned schedule and without an agency default to fall back on.
func (s *scheduleServiceImpl) DeleteSchedule(ctx context.Context, agencyID string, id string) error {
	target, err := s.scheduleRepo.GetByID(ctx, id, agencyID)
	if err != nil {
		return err
	}

	schedules, err := s.scheduleRepo.ListByAgency(ctx, agencyID)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}
	others := slices.DeleteFunc(slices.Clone(schedules), func(sc schedule.Schedule) bool {
		return sc.ID == target.ID
	})

	hasOtherDefault := slices.ContainsFunc(others, func(sc schedule.Schedule) bool { return sc.IsDefault })
	if !hasOtherDefault {
		for _, subjectID := range target.AssignedSubjectIDs {
			covered := slices.ContainsFunc(others, func(sc schedule.Schedule) bool { return sc.IsAssigned(subjectID) })
			if covered {
				continue
			}

			subj, err := s.subjectRepo.GetByID(ctx, subjectID)
			if errors.Is(err, subject.ErrSubjectNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to get user %s: %w", subjectID, err)
			}
			if subj.Status == subject.StatusActive {
				return schedule.ErrScheduleInUse
			}
		}
	}

	if err := s.scheduleRepo.Delete(ctx, id, agencyID); err != nil {
		return err
	}
	s.invalidate(ctx, agencyID)

	slog.Info("Schedule deleted", "agency_id", agencyID, "schedule_id", id)
	return nil
}

// ResolveApplicableSchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ResolveApplicableSchedule(ctx context.Context, subjectID string, date time.Time) (schedule.Schedule, error) {
	subj, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return schedule.Schedule{}, err
	}

	return s.resolveFor(ctx, subj, date)
}

// ResolveAgencySchedule implements schedule.ScheduleService.
func (s *scheduleServiceImpl) ResolveAgencySchedule(ctx context.Context, agencyID, subjectID string, date time.Time) (schedule.Schedule, error) {
	subj, err := s.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if subj.AgencyID != agencyID {
		return schedule.Schedule{}, subject.ErrSubjectNotFound
	}

	return s.resolveFor(ctx, subj, date)
}

func (s *scheduleServiceImpl) resolveFor(ctx context.Context, subj subject.Subject, date time.Time) (schedule.Schedule, error) {
	schedules, err := s.listByAgency(ctx, subj.AgencyID)
	if err != nil {
		return schedule.Schedule{}, err
	}

	return Resolve(schedules, subj.ID, schedule.WeekdayOf(date))
}

// Resolve picks the governing schedule from an agency's schedules. Explicit
// assignments covering day win over the default one; among equals the oldest
// schedule wins. Without a match the agency default applies.
func Resolve(schedules []schedule.Schedule, subjectID string, day schedule.Weekday) (schedule.Schedule, error) {
	var candidates []schedule.Schedule
	for _, sc := range schedules {
		if sc.IsAssigned(subjectID) && sc.CoversDay(day) {
			candidates = append(candidates, sc)
		}
	}

	if len(candidates) > 0 {
		slices.SortFunc(candidates, func(a, b schedule.Schedule) int {
			if a.IsDefault != b.IsDefault {
				if b.IsDefault {
					return -1
				}
				return 1
			}
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			if a.ID < b.ID {
				return -1
			}
			if a.ID > b.ID {
				return 1
			}
			return 0
		})
		return candidates[0], nil
	}

	for _, sc := range schedules {
		if sc.IsDefault {
			return sc, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrNoApplicableSchedule
}

// listByAgency reads through the schedule cache. Cache failures only cost a
// database round trip.
func (s *scheduleServiceImpl) listByAgency(ctx context.Context, agencyID string) ([]schedule.Schedule, error) {
	key := cache.AgencySchedulesKey(agencyID)

	var cached []schedule.Schedule
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("Failed to read schedule cache", "agency_id", agencyID, "error", err)
	}

	schedules, err := s.scheduleRepo.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	if err := s.cache.Set(ctx, key, schedules, s.cacheTTL); err != nil {
		slog.Warn("Failed to write schedule cache", "agency_id", agencyID, "error", err)
	}
	return schedules, nil
}

func (s *scheduleServiceImpl) invalidate(ctx context.Context, agencyID string) {
	if err := s.cache.Delete(ctx, cache.AgencySchedulesKey(agencyID)); err != nil {
		slog.Warn("Failed to invalidate schedule cache", "agency_id", agencyID, "error", err)
	}
}

// checkAssignees rejects subjects that are unknown or belong to another agency.
func (s *scheduleServiceImpl) checkAssignees(ctx context.Context, agencyID string, subjectIDs []string) error {
	var errs validator.ValidationErrors
	for _, id := range subjectIDs {
		subj, err := s.subjectRepo.GetByID(ctx, id)
		if errors.Is(err, subject.ErrSubjectNotFound) || (err == nil && subj.AgencyID != agencyID) {
			errs.Add("assignedUsersIds", fmt.Sprintf("user %s does not belong to this agency", id))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to get user %s: %w", id, err)
		}
	}
	return errs.Err()
}

func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	subjectRepo subject.SubjectRepository,
	scheduleCache cache.Cache,
	cacheTTL time.Duration,
) schedule.ScheduleService {
	if scheduleCache == nil {
		scheduleCache = cache.Noop{}
	}
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		subjectRepo:  subjectRepo,
		cache:        scheduleCache,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}
