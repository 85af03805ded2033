package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token and stores
// the token's actor in the request context.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		actor, err := auth.ActorFromClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	}
	return http.HandlerFunc(hfn)
}

// RequireAgency allows only agency actors through.
func RequireAgency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if _, ok := actor.(auth.AgencyActor); !ok {
			response.HandleError(w, auth.ErrAgencyOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser allows only user actors through.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if _, ok := actor.(auth.UserActor); !ok {
			response.HandleError(w, auth.ErrUserOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}
