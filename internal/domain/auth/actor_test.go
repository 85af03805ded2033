package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActor_ClaimsRoundTrip(t *testing.T) {
	actors := []Actor{
		UserActor{UserID: "user-1", Agency: "agency-1"},
		AgencyActor{Agency: "agency-1"},
	}
	for _, actor := range actors {
		decoded, err := ActorFromClaims(Claims(actor))
		require.NoError(t, err)
		assert.Equal(t, actor, decoded)
	}
}

func TestActorFromClaims_Rejects(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"refresh token": {ClaimType: "refresh", ClaimActorType: ActorTypeAgency, ClaimActorID: "a"},
		"missing id":    {ClaimType: TokenTypeAccess, ClaimActorType: ActorTypeAgency},
		"user without agency": {
			ClaimType: TokenTypeAccess, ClaimActorType: ActorTypeUser, ClaimActorID: "u",
		},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ActorFromClaims(claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := ActorFromClaims(map[string]interface{}{
		ClaimType: TokenTypeAccess, ClaimActorType: "admin", ClaimActorID: "x",
	})
	assert.ErrorIs(t, err, ErrUnknownActorType)
}

func TestActorContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingActor)

	ctx := WithActor(context.Background(), AgencyActor{Agency: "agency-1"})
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agency-1", actor.AgencyID())
}
