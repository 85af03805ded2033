package schedule

import "context"

// ScheduleRepository stores schedules together with their days and assignments.
// Create and Update must clear IsDefault on every other schedule of the same
// agency in the same atomic write when the saved schedule is the default.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule Schedule) (Schedule, error)
	GetByID(ctx context.Context, id string, agencyID string) (Schedule, error)
	ListByAgency(ctx context.Context, agencyID string) ([]Schedule, error)
	Update(ctx context.Context, schedule Schedule) (Schedule, error)
	Delete(ctx context.Context, id string, agencyID string) error
}
