package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type subjectRepository struct {
	db *database.DB
}

func NewSubjectRepository(db *database.DB) subject.SubjectRepository {
	return &subjectRepository{db: db}
}

const subjectColumns = `id, agency_id, name, status, created_at, updated_at`

func scanSubject(row rowScanner) (subject.Subject, error) {
	var (
		s      subject.Subject
		status string
	)
	if err := row.Scan(&s.ID, &s.AgencyID, &s.Name, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return subject.Subject{}, err
	}
	s.Status = subject.Status(status)
	return s, nil
}

// Upsert implements subject.SubjectRepository.
func (r *subjectRepository) Upsert(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO subjects (id, agency_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name,
			    status = EXCLUDED.status,
			    updated_at = EXCLUDED.updated_at
			WHERE subjects.agency_id = EXCLUDED.agency_id
		RETURNING ` + subjectColumns

	saved, err := scanSubject(q.QueryRow(ctx, query,
		s.ID, s.AgencyID, s.Name, string(s.Status), s.CreatedAt, s.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subject.Subject{}, subject.ErrSubjectAgencyChange
		}
		return subject.Subject{}, fmt.Errorf("failed to upsert subject: %w", err)
	}
	return saved, nil
}

// GetByID implements subject.SubjectRepository.
func (r *subjectRepository) GetByID(ctx context.Context, id string) (subject.Subject, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`

	s, err := scanSubject(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subject.Subject{}, subject.ErrSubjectNotFound
		}
		return subject.Subject{}, fmt.Errorf("failed to get subject: %w", err)
	}
	return s, nil
}

// ListByAgency implements subject.SubjectRepository.
func (r *subjectRepository) ListByAgency(ctx context.Context, agencyID string) ([]subject.Subject, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE agency_id = $1 ORDER BY id`

	rows, err := q.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]subject.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subjects: %w", err)
	}
	return subjects, nil
}
