package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type dayKey struct {
	subjectID string
	date      time.Time
}

type attendanceRepositoryImpl struct {
	mu      sync.RWMutex
	records map[dayKey]attendance.Attendance
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{records: make(map[dayKey]attendance.Attendance)}
}

func keyOf(subjectID string, date time.Time) dayKey {
	return dayKey{subjectID: subjectID, date: attendance.DateOf(date)}
}

// Create implements attendance.AttendanceRepository. The (subject, date) key
// is checked and written under one lock.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(a.SubjectID, a.Date)
	if _, exists := r.records[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	a.Date = key.date
	r.records[key] = a
	return a, nil
}

// GetBySubjectAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetBySubjectAndDate(ctx context.Context, subjectID string, date time.Time) (attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[keyOf(subjectID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CheckOut(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(a.SubjectID, a.Date)
	current, ok := r.records[key]
	if !ok || current.ID != a.ID {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if current.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	current.CheckOutTime = a.CheckOutTime
	current.MethodOut = a.MethodOut
	current.WorkedMinutes = a.WorkedMinutes
	current.EarlyLeaveMinutes = a.EarlyLeaveMinutes
	current.Notes = a.Notes
	current.UpdatedAt = a.UpdatedAt
	r.records[key] = current
	return current, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start, end := attendance.DateOf(filter.StartDate), attendance.DateOf(filter.EndDate)
	list := make([]attendance.Attendance, 0)
	for _, a := range r.records {
		if a.AgencyID != filter.AgencyID {
			continue
		}
		if a.Date.Before(start) || a.Date.After(end) {
			continue
		}
		if filter.SubjectID != nil && a.SubjectID != *filter.SubjectID {
			continue
		}
		list = append(list, a)
	}
	sortRecords(list)
	return list, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenBefore(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := attendance.DateOf(date)
	list := make([]attendance.Attendance, 0)
	for _, a := range r.records {
		if a.IsOpen() && a.Date.Before(cutoff) {
			list = append(list, a)
		}
	}
	sortRecords(list)
	return list, nil
}

func sortRecords(list []attendance.Attendance) {
	slices.SortFunc(list, func(a, b attendance.Attendance) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return compareStrings(a.SubjectID, b.SubjectID)
	})
}
