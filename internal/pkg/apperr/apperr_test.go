package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsKind(t *testing.T) {
	err := NotFound("schedule not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "schedule not found", err.Error())
}

func TestError_WrappedKeepsKind(t *testing.T) {
	base := Conflict("attendance already recorded")
	wrapped := fmt.Errorf("check in: %w", base)

	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, ErrConflict, KindOf(wrapped))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Nil(t, KindOf(errors.New("boom")))
	assert.Nil(t, KindOf(nil))
}
