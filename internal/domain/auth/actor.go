package auth

import (
	"context"
	"fmt"
)

// Claim keys carried by access tokens.
const (
	ClaimType      = "type"
	ClaimActorType = "actor_type"
	ClaimActorID   = "actor_id"
	ClaimAgencyID  = "agency_id"

	TokenTypeAccess = "access"

	ActorTypeUser   = "user"
	ActorTypeAgency = "agency"
)

// Actor is the authenticated caller: either a UserActor or an AgencyActor.
// Handlers switch on the concrete type; no other implementations exist.
type Actor interface {
	ID() string
	AgencyID() string
	isActor()
}

// UserActor is a tracked person acting on their own attendance.
type UserActor struct {
	UserID string
	Agency string
}

// AgencyActor is the tenant that owns schedules and subjects.
type AgencyActor struct {
	Agency string
}

func (u UserActor) ID() string       { return u.UserID }
func (u UserActor) AgencyID() string { return u.Agency }
func (UserActor) isActor()           {}

func (a AgencyActor) ID() string       { return a.Agency }
func (a AgencyActor) AgencyID() string { return a.Agency }
func (AgencyActor) isActor()           {}

// ActorFromClaims decodes the actor from verified token claims.
func ActorFromClaims(claims map[string]interface{}) (Actor, error) {
	if tokenType, _ := claims[ClaimType].(string); tokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}

	actorType, _ := claims[ClaimActorType].(string)
	actorID, _ := claims[ClaimActorID].(string)
	if actorID == "" {
		return nil, ErrInvalidToken
	}

	switch actorType {
	case ActorTypeUser:
		agencyID, _ := claims[ClaimAgencyID].(string)
		if agencyID == "" {
			return nil, ErrInvalidToken
		}
		return UserActor{UserID: actorID, Agency: agencyID}, nil
	case ActorTypeAgency:
		return AgencyActor{Agency: actorID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActorType, actorType)
	}
}

// Claims encodes actor into access token claims.
func Claims(actor Actor) map[string]interface{} {
	claims := map[string]interface{}{
		ClaimType:     TokenTypeAccess,
		ClaimActorID:  actor.ID(),
		ClaimAgencyID: actor.AgencyID(),
	}
	switch actor.(type) {
	case UserActor:
		claims[ClaimActorType] = ActorTypeUser
	case AgencyActor:
		claims[ClaimActorType] = ActorTypeAgency
	}
	return claims
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor == nil {
		return nil, ErrMissingActor
	}
	return actor, nil
}
