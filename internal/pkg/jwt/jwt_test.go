package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	for _, actor := range []auth.Actor{
		auth.UserActor{UserID: "user-1", Agency: "agency-1"},
		auth.AgencyActor{Agency: "agency-1"},
	} {
		token, expiresAt, err := svc.GenerateAccessToken(actor)
		require.NoError(t, err)
		assert.Greater(t, expiresAt, time.Now().Unix())

		parsed, err := svc.ParseActor(token)
		require.NoError(t, err)
		assert.Equal(t, actor, parsed)
	}
}

func TestJWTService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	token, _, err := other.GenerateAccessToken(auth.AgencyActor{Agency: "agency-1"})
	require.NoError(t, err)
	_, err = svc.ParseActor(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	expired := NewJWTService("test-secret", -time.Hour)
	token, _, err = expired.GenerateAccessToken(auth.AgencyActor{Agency: "agency-1"})
	require.NoError(t, err)
	_, err = svc.ParseActor(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
