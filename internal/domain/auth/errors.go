package auth

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrUnknownActorType = errors.New("unknown actor type in token")
	ErrMissingActor     = errors.New("request has no authenticated actor")
	ErrAgencyOnly       = errors.New("only agency accounts can perform this action")
	ErrUserOnly         = errors.New("only user accounts can perform this action")
)
