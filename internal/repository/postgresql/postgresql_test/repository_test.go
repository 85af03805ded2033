package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func newSchedule(t *testing.T, agencyID string, isDefault bool, assigned ...string) schedule.Schedule {
	return schedule.Schedule{
		ID:                 newID(t),
		AgencyID:           agencyID,
		Name:               "Office hours",
		DaysOfWeek:         []schedule.Weekday{schedule.Monday, schedule.Wednesday},
		EntryTime:          9 * 60,
		ExitTime:           18 * 60,
		GracePeriodMinutes: 10,
		IsDefault:          isDefault,
		AssignedSubjectIDs: assigned,
		CreatedAt:          testNow,
		UpdatedAt:          testNow,
	}
}

func TestSubjectRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSubjectRepository(setup.DB)

	saved, err := repo.Upsert(ctx, subject.Subject{
		ID: "user-1", AgencyID: "agency-1", Name: "Ayu", Status: subject.StatusPending,
		CreatedAt: testNow, UpdatedAt: testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, subject.StatusPending, saved.Status)

	_, err = repo.Upsert(ctx, subject.Subject{
		ID: "user-1", AgencyID: "agency-1", Name: "Ayu", Status: subject.StatusActive,
		CreatedAt: testNow, UpdatedAt: testNow.Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, subject.StatusActive, got.Status)

	_, err = repo.Upsert(ctx, subject.Subject{ID: "user-1", AgencyID: "agency-2", Name: "Ayu", Status: subject.StatusActive, CreatedAt: testNow, UpdatedAt: testNow})
	assert.ErrorIs(t, err, subject.ErrSubjectAgencyChange)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, subject.ErrSubjectNotFound)

	list, err := repo.ListByAgency(ctx, "agency-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestScheduleRepository_DefaultSwap(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewScheduleRepository(setup.DB)

	first, err := repo.Create(ctx, newSchedule(t, "agency-1", true, "user-1", "user-2"))
	require.NoError(t, err)
	assert.Equal(t, []schedule.Weekday{schedule.Monday, schedule.Wednesday}, first.DaysOfWeek)
	assert.Equal(t, []string{"user-1", "user-2"}, first.AssignedSubjectIDs)

	second, err := repo.Create(ctx, newSchedule(t, "agency-1", true))
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	first, err = repo.GetByID(ctx, first.ID, "agency-1")
	require.NoError(t, err)
	assert.False(t, first.IsDefault)

	first.IsDefault = true
	first.AssignedSubjectIDs = []string{"user-3"}
	first, err = repo.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-3"}, first.AssignedSubjectIDs)

	list, err := repo.ListByAgency(ctx, "agency-1")
	require.NoError(t, err)
	defaults := 0
	for _, s := range list {
		if s.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = repo.GetByID(ctx, first.ID, "agency-2")
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	require.NoError(t, repo.Delete(ctx, first.ID, "agency-1"))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID, "agency-1"), schedule.ErrScheduleNotFound)
}

func TestAttendanceRepository_UniquePerDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	checkIn := date.Add(9 * time.Hour)
	method := attendance.MethodQR

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, attendance.Attendance{
				ID: uuid.NewString(), SubjectID: "user-1", AgencyID: "agency-1", Date: date,
				CheckInTime: &checkIn, ScheduleEntryTime: 9 * 60, ScheduleExitTime: 18 * 60,
				ScheduleGracePeriodMinutes: 10, Status: attendance.StatusOnTime, MethodIn: &method,
				CreatedAt: testNow, UpdatedAt: testNow,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn) {
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	record, err := repo.GetBySubjectAndDate(ctx, "user-1", date)
	require.NoError(t, err)
	assert.True(t, record.IsOpen())
	assert.Equal(t, schedule.ClockTime(9*60), record.ScheduleEntryTime)

	open, err := repo.ListOpenBefore(ctx, date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, open, 1)

	checkOut := date.Add(18 * time.Hour)
	worked := 540
	out := attendance.MethodNFC
	record.CheckOutTime = &checkOut
	record.MethodOut = &out
	record.WorkedMinutes = &worked
	record.Notes = "done"
	record.UpdatedAt = testNow

	closed, err := repo.CheckOut(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, "done", closed.Notes)
	require.NotNil(t, closed.MethodOut)
	assert.Equal(t, attendance.MethodNFC, *closed.MethodOut)

	_, err = repo.CheckOut(ctx, record)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	userID := "user-1"
	list, err := repo.List(ctx, attendance.Filter{AgencyID: "agency-1", StartDate: date, EndDate: date, SubjectID: &userID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
