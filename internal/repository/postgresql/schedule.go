package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const defaultScheduleIndex = "uq_schedules_agency_default"

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleSelect = `
	SELECT s.id, s.agency_id, s.name, s.entry_minute, s.exit_minute, s.is_overnight,
		   s.grace_period_minutes, s.is_default, s.created_at, s.updated_at,
		   COALESCE((SELECT array_agg(d.day_of_week::int ORDER BY d.day_of_week)
		             FROM schedule_days d WHERE d.schedule_id = s.id), '{}') AS days,
		   COALESCE((SELECT array_agg(a.subject_id ORDER BY a.subject_id)
		             FROM schedule_assignments a WHERE a.schedule_id = s.id), '{}') AS assigned
	FROM schedules s
`

func scanSchedule(row rowScanner) (schedule.Schedule, error) {
	var (
		s                  schedule.Schedule
		entry, exit, grace int32
		days               []int32
	)
	err := row.Scan(
		&s.ID, &s.AgencyID, &s.Name, &entry, &exit, &s.IsOvernight,
		&grace, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt,
		&days, &s.AssignedSubjectIDs,
	)
	if err != nil {
		return schedule.Schedule{}, err
	}

	s.EntryTime = schedule.ClockTime(entry)
	s.ExitTime = schedule.ClockTime(exit)
	s.GracePeriodMinutes = int(grace)
	s.DaysOfWeek = make([]schedule.Weekday, 0, len(days))
	for _, d := range days {
		s.DaysOfWeek = append(s.DaysOfWeek, schedule.Weekday(d))
	}
	return s, nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepository) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := WithTx(ctx, tx)

		if s.IsDefault {
			if err := r.clearDefault(txCtx, s.AgencyID, s.ID); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO schedules (
				id, agency_id, name, entry_minute, exit_minute, is_overnight,
				grace_period_minutes, is_default, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.Exec(txCtx, query,
			s.ID, s.AgencyID, s.Name, int(s.EntryTime), int(s.ExitTime), s.IsOvernight,
			s.GracePeriodMinutes, s.IsDefault, s.CreatedAt, s.UpdatedAt,
		); err != nil {
			return err
		}

		return r.replaceChildren(txCtx, s)
	})
	if err != nil {
		return schedule.Schedule{}, r.mapError("create", err)
	}

	return r.GetByID(ctx, s.ID, s.AgencyID)
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string, agencyID string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSchedule(q.QueryRow(ctx, scheduleSelect+` WHERE s.id = $1 AND s.agency_id = $2`, id, agencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// ListByAgency implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListByAgency(ctx context.Context, agencyID string) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, scheduleSelect+` WHERE s.agency_id = $1 ORDER BY s.created_at, s.id`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]schedule.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}

// Update implements schedule.ScheduleRepository.
func (r *scheduleRepository) Update(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := WithTx(ctx, tx)

		if s.IsDefault {
			if err := r.clearDefault(txCtx, s.AgencyID, s.ID); err != nil {
				return err
			}
		}

		query := `
			UPDATE schedules
			SET name = $3, entry_minute = $4, exit_minute = $5, is_overnight = $6,
			    grace_period_minutes = $7, is_default = $8, updated_at = $9
			WHERE id = $1 AND agency_id = $2
		`
		tag, err := tx.Exec(txCtx, query,
			s.ID, s.AgencyID, s.Name, int(s.EntryTime), int(s.ExitTime), s.IsOvernight,
			s.GracePeriodMinutes, s.IsDefault, s.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return schedule.ErrScheduleNotFound
		}

		return r.replaceChildren(txCtx, s)
	})
	if err != nil {
		return schedule.Schedule{}, r.mapError("update", err)
	}

	return r.GetByID(ctx, s.ID, s.AgencyID)
}

// Delete implements schedule.ScheduleRepository. Days and assignments go with
// the row; attendance records keep their snapshot and lose the reference.
func (r *scheduleRepository) Delete(ctx context.Context, id string, agencyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedules WHERE id = $1 AND agency_id = $2`, id, agencyID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

func (r *scheduleRepository) clearDefault(ctx context.Context, agencyID, keepID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedules SET is_default = FALSE, updated_at = NOW()
		WHERE agency_id = $1 AND is_default AND id <> $2
	`
	_, err := q.Exec(ctx, query, agencyID, keepID)
	return err
}

func (r *scheduleRepository) replaceChildren(ctx context.Context, s schedule.Schedule) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM schedule_days WHERE schedule_id = $1`, s.ID); err != nil {
		return err
	}
	for _, d := range s.DaysOfWeek {
		if _, err := q.Exec(ctx, `INSERT INTO schedule_days (schedule_id, day_of_week) VALUES ($1, $2)`, s.ID, int(d)); err != nil {
			return err
		}
	}

	if _, err := q.Exec(ctx, `DELETE FROM schedule_assignments WHERE schedule_id = $1`, s.ID); err != nil {
		return err
	}
	for _, subjectID := range s.AssignedSubjectIDs {
		if _, err := q.Exec(ctx, `INSERT INTO schedule_assignments (schedule_id, subject_id) VALUES ($1, $2)`, s.ID, subjectID); err != nil {
			return err
		}
	}
	return nil
}

func (r *scheduleRepository) mapError(op string, err error) error {
	switch {
	case errors.Is(err, schedule.ErrScheduleNotFound):
		return err
	case constraintViolation(err, pgUniqueViolation, defaultScheduleIndex):
		return schedule.ErrDefaultScheduleExists
	default:
		return fmt.Errorf("failed to %s schedule: %w", op, err)
	}
}
