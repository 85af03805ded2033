package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, agencyID string, req CreateScheduleRequest) (ScheduleResponse, error)
	GetSchedule(ctx context.Context, agencyID string, id string) (ScheduleResponse, error)
	ListSchedules(ctx context.Context, agencyID string) ([]ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, agencyID string, id string, req UpdateScheduleRequest) (ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, agencyID string, id string) error

	// ResolveApplicableSchedule picks the schedule that governs subjectID on date.
	ResolveApplicableSchedule(ctx context.Context, subjectID string, date time.Time) (Schedule, error)
	// ResolveAgencySchedule resolves like ResolveApplicableSchedule for a
	// subject of agencyID; subjects of other agencies are not found.
	ResolveAgencySchedule(ctx context.Context, agencyID, subjectID string, date time.Time) (Schedule, error)
}
