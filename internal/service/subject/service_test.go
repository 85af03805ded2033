package subject

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/subject"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/apperr"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectService_UpsertSubject(t *testing.T) {
	ctx := context.Background()
	svc := NewSubjectService(memory.NewSubjectRepository())

	created, err := svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: "user-1", AgencyID: "agency-1", Name: "Ayu"})
	require.NoError(t, err)
	assert.Equal(t, subject.StatusPending, created.Status)

	renamed, err := svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: "user-1", AgencyID: "agency-1", Name: "Ayu Lestari", Status: subject.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, "Ayu Lestari", renamed.Name)
	assert.Equal(t, created.CreatedAt, renamed.CreatedAt)

	_, err = svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: "user-1", AgencyID: "agency-2", Name: "Ayu"})
	assert.ErrorIs(t, err, subject.ErrSubjectAgencyChange)

	_, err = svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: "user-2", AgencyID: "agency-1", Name: "Budi", Status: "ON_LEAVE"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSubjectService_GetAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewSubjectService(memory.NewSubjectRepository())

	for _, id := range []string{"user-2", "user-1"} {
		_, err := svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: id, AgencyID: "agency-1", Name: id})
		require.NoError(t, err)
	}

	got, err := svc.GetSubject(ctx, "agency-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	_, err = svc.GetSubject(ctx, "agency-2", "user-1")
	assert.ErrorIs(t, err, subject.ErrSubjectNotFound)

	list, err := svc.ListSubjects(ctx, "agency-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "user-1", list[0].ID)

	list, err = svc.ListSubjects(ctx, "agency-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubjectService_ActivateSubject(t *testing.T) {
	ctx := context.Background()
	svc := NewSubjectService(memory.NewSubjectRepository())

	_, err := svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: "user-1", AgencyID: "agency-1", Name: "Ayu"})
	require.NoError(t, err)
	_, err = svc.UpsertSubject(ctx, subject.UpsertSubjectRequest{ID: "user-2", AgencyID: "agency-1", Name: "Budi", Status: subject.StatusInactive})
	require.NoError(t, err)

	resp, err := svc.ActivateSubject(ctx, "agency-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.State)
	require.NotNil(t, resp.Subject)
	assert.Equal(t, subject.StatusActive, resp.Subject.Status)

	resp, err = svc.ActivateSubject(ctx, "agency-1", "user-1")
	assert.ErrorIs(t, err, subject.ErrAlreadyActive)
	assert.Equal(t, "error", resp.State)
	assert.Equal(t, subject.ErrAlreadyActive.Error(), resp.Message)

	resp, err = svc.ActivateSubject(ctx, "agency-1", "user-2")
	assert.ErrorIs(t, err, subject.ErrSubjectInactive)
	assert.Equal(t, "error", resp.State)

	_, err = svc.ActivateSubject(ctx, "agency-2", "user-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
