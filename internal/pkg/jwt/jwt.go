package jwt

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider. Tokens can
// also be minted for tests and local tooling.
type Service interface {
	GenerateAccessToken(actor auth.Actor) (token string, expiresAt int64, err error)
	ParseActor(token string) (auth.Actor, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(actor auth.Actor) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := auth.Claims(actor)
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseActor verifies token and decodes its actor.
func (j *JWTService) ParseActor(token string) (auth.Actor, error) {
	decoded, err := jwtauth.VerifyToken(j.tokenAuth, token)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	claims, err := decoded.AsMap(context.Background())
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return auth.ActorFromClaims(claims)
}
