package schedule

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAgency = "agency-1"

// monday is 2024-06-03, a Monday.
var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

type mapCache struct {
	mu     sync.Mutex
	values map[string][]byte
	hits   int
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func newTestService(t *testing.T, c cache.Cache) (*scheduleServiceImpl, subject.SubjectRepository) {
	t.Helper()
	subjects := memory.NewSubjectRepository()
	svc := NewScheduleService(memory.NewScheduleRepository(), subjects, c, time.Minute).(*scheduleServiceImpl)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, subjects
}

func addSubject(t *testing.T, repo subject.SubjectRepository, id string, status subject.Status) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), subject.Subject{
		ID:       id,
		AgencyID: testAgency,
		Name:     "User " + id,
		Status:   status,
	})
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }

func officeHours(assigned ...string) schedule.CreateScheduleRequest {
	return schedule.CreateScheduleRequest{
		Name:               "Office hours",
		DaysOfWeek:         []int{1, 2, 3, 4, 5},
		EntryTime:          "09:00",
		ExitTime:           "18:00",
		GracePeriodMinutes: intPtr(10),
		AssignedSubjectIDs: assigned,
	}
}

func TestScheduleService_CreateSchedule_Success(t *testing.T) {
	ctx := context.Background()
	svc, subjects := newTestService(t, nil)
	addSubject(t, subjects, "user-1", subject.StatusActive)

	resp, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1", "user-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, testAgency, resp.AgencyID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, resp.DaysOfWeek)
	assert.Equal(t, "09:00", resp.EntryTime)
	assert.Equal(t, "18:00", resp.ExitTime)
	assert.Equal(t, []string{"user-1"}, resp.AssignedSubjectIDs)

	got, err := svc.GetSchedule(ctx, testAgency, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestScheduleService_CreateSchedule_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	req := officeHours()
	req.DaysOfWeek = nil
	req.GracePeriodMinutes = intPtr(61)

	_, err := svc.CreateSchedule(ctx, testAgency, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestScheduleService_CreateSchedule_ForeignAssignee(t *testing.T) {
	ctx := context.Background()
	svc, subjects := newTestService(t, nil)
	_, err := subjects.Upsert(ctx, subject.Subject{ID: "outsider", AgencyID: "agency-2", Status: subject.StatusActive})
	require.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, testAgency, officeHours("outsider"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateSchedule(ctx, testAgency, officeHours("ghost"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestScheduleService_UpdateSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)

	created, err := svc.CreateSchedule(ctx, testAgency, officeHours())
	require.NoError(t, err)

	name := "Late shift"
	entry := "13:00"
	exit := "22:00"
	updated, err := svc.UpdateSchedule(ctx, testAgency, created.ID, schedule.UpdateScheduleRequest{
		Name:      &name,
		EntryTime: &entry,
		ExitTime:  &exit,
	})
	require.NoError(t, err)
	assert.Equal(t, "Late shift", updated.Name)
	assert.Equal(t, "13:00", updated.EntryTime)
	assert.Equal(t, created.DaysOfWeek, updated.DaysOfWeek)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	badExit := "08:00"
	_, err = svc.UpdateSchedule(ctx, testAgency, created.ID, schedule.UpdateScheduleRequest{ExitTime: &badExit})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdateSchedule(ctx, testAgency, "missing", schedule.UpdateScheduleRequest{Name: &name})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	_, err = svc.UpdateSchedule(ctx, "agency-2", created.ID, schedule.UpdateScheduleRequest{Name: &name})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestScheduleService_DefaultIsUnique(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	rng := rand.New(rand.NewSource(42))

	var ids []string
	for i := 0; i < 200; i++ {
		isDefault := rng.Intn(2) == 0
		if len(ids) == 0 || rng.Intn(3) == 0 {
			req := officeHours()
			req.IsDefault = isDefault
			resp, err := svc.CreateSchedule(ctx, testAgency, req)
			require.NoError(t, err)
			ids = append(ids, resp.ID)
		} else {
			id := ids[rng.Intn(len(ids))]
			_, err := svc.UpdateSchedule(ctx, testAgency, id, schedule.UpdateScheduleRequest{IsDefault: &isDefault})
			require.NoError(t, err)
		}

		list, err := svc.ListSchedules(ctx, testAgency)
		require.NoError(t, err)
		defaults := 0
		for _, s := range list {
			if s.IsDefault {
				defaults++
			}
		}
		require.LessOrEqual(t, defaults, 1, "operation %d left %d default schedules", i, defaults)
	}
}

func TestScheduleService_ResolveApplicableSchedule(t *testing.T) {
	ctx := context.Background()
	svc, subjects := newTestService(t, nil)
	addSubject(t, subjects, "user-1", subject.StatusActive)
	addSubject(t, subjects, "user-2", subject.StatusActive)

	t.Run("no schedule at all", func(t *testing.T) {
		_, err := svc.ResolveApplicableSchedule(ctx, "user-1", monday)
		assert.ErrorIs(t, err, schedule.ErrNoApplicableSchedule)
	})

	weekday, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		got, err := svc.ResolveApplicableSchedule(ctx, "user-1", monday)
		require.NoError(t, err)
		assert.Equal(t, weekday.ID, got.ID)
	})

	t.Run("day not covered and no default", func(t *testing.T) {
		_, err := svc.ResolveApplicableSchedule(ctx, "user-1", monday.AddDate(0, 0, 5))
		assert.ErrorIs(t, err, schedule.ErrNoApplicableSchedule)
	})

	defReq := officeHours("user-1")
	defReq.Name = "Default"
	defReq.DaysOfWeek = []int{1, 2, 3, 4, 5, 6, 7}
	defReq.IsDefault = true
	def, err := svc.CreateSchedule(ctx, testAgency, defReq)
	require.NoError(t, err)

	t.Run("explicit assignment beats default", func(t *testing.T) {
		got, err := svc.ResolveApplicableSchedule(ctx, "user-1", monday)
		require.NoError(t, err)
		assert.Equal(t, weekday.ID, got.ID)
	})

	t.Run("default applies when nothing matches", func(t *testing.T) {
		got, err := svc.ResolveApplicableSchedule(ctx, "user-2", monday)
		require.NoError(t, err)
		assert.Equal(t, def.ID, got.ID)

		got, err = svc.ResolveApplicableSchedule(ctx, "user-1", monday.AddDate(0, 0, 6))
		require.NoError(t, err)
		assert.Equal(t, def.ID, got.ID)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := svc.ResolveApplicableSchedule(ctx, "ghost", monday)
		assert.ErrorIs(t, err, subject.ErrSubjectNotFound)
	})
}

func TestScheduleService_ResolveAgencySchedule(t *testing.T) {
	ctx := context.Background()
	svc, subjects := newTestService(t, nil)
	addSubject(t, subjects, "user-1", subject.StatusActive)

	_, err := svc.ResolveAgencySchedule(ctx, "agency-2", "user-1", monday)
	assert.ErrorIs(t, err, subject.ErrSubjectNotFound)

	created, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
	require.NoError(t, err)

	got, err := svc.ResolveAgencySchedule(ctx, testAgency, "user-1", monday)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.ResolveAgencySchedule(ctx, "agency-2", "user-1", monday)
	assert.ErrorIs(t, err, subject.ErrSubjectNotFound)
}

func TestResolve_OldestExplicitScheduleWins(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	schedules := []schedule.Schedule{
		{ID: "c", DaysOfWeek: []schedule.Weekday{schedule.Monday}, AssignedSubjectIDs: []string{"u"}, CreatedAt: base.Add(time.Hour)},
		{ID: "b", DaysOfWeek: []schedule.Weekday{schedule.Monday}, AssignedSubjectIDs: []string{"u"}, CreatedAt: base},
		{ID: "a", DaysOfWeek: []schedule.Weekday{schedule.Monday}, AssignedSubjectIDs: []string{"u"}, CreatedAt: base},
		{ID: "0", DaysOfWeek: []schedule.Weekday{schedule.Monday}, AssignedSubjectIDs: []string{"u"}, IsDefault: true},
	}

	got, err := Resolve(schedules, "u", schedule.Monday)
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestScheduleService_DeleteSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("only schedule of an active subject", func(t *testing.T) {
		svc, subjects := newTestService(t, nil)
		addSubject(t, subjects, "user-1", subject.StatusActive)

		created, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
		require.NoError(t, err)

		err = svc.DeleteSchedule(ctx, testAgency, created.ID)
		assert.ErrorIs(t, err, schedule.ErrScheduleInUse)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("default schedule takes over", func(t *testing.T) {
		svc, subjects := newTestService(t, nil)
		addSubject(t, subjects, "user-1", subject.StatusActive)

		created, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
		require.NoError(t, err)
		def := officeHours()
		def.IsDefault = true
		_, err = svc.CreateSchedule(ctx, testAgency, def)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteSchedule(ctx, testAgency, created.ID))
		_, err = svc.GetSchedule(ctx, testAgency, created.ID)
		assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
	})

	t.Run("another assigned schedule takes over", func(t *testing.T) {
		svc, subjects := newTestService(t, nil)
		addSubject(t, subjects, "user-1", subject.StatusActive)

		first, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
		require.NoError(t, err)
		_, err = svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
		require.NoError(t, err)

		assert.NoError(t, svc.DeleteSchedule(ctx, testAgency, first.ID))
	})

	t.Run("pending subject does not block", func(t *testing.T) {
		svc, subjects := newTestService(t, nil)
		addSubject(t, subjects, "user-1", subject.StatusPending)

		created, err := svc.CreateSchedule(ctx, testAgency, officeHours("user-1"))
		require.NoError(t, err)

		assert.NoError(t, svc.DeleteSchedule(ctx, testAgency, created.ID))
	})

	t.Run("unknown schedule", func(t *testing.T) {
		svc, _ := newTestService(t, nil)
		assert.ErrorIs(t, svc.DeleteSchedule(ctx, testAgency, "missing"), schedule.ErrScheduleNotFound)
	})
}

func TestScheduleService_CacheInvalidation(t *testing.T) {
	ctx := context.Background()
	c := &mapCache{values: make(map[string][]byte)}
	svc, _ := newTestService(t, c)

	list, err := svc.ListSchedules(ctx, testAgency)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ListSchedules(ctx, testAgency)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)

	created, err := svc.CreateSchedule(ctx, testAgency, officeHours())
	require.NoError(t, err)

	list, err = svc.ListSchedules(ctx, testAgency)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}
