package middleware

import (
	"net/http"

	"helpdesk/internal/access"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

// RequireAuth blocks when no user is present in context (set by WithAuth).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.SessionFrom(r.Context()); !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability allows the request only if the current role holds action.
func RequireCapability(action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ActorFrom(r).Can(action) {
				utils.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ActorFrom builds the service actor from the request context.
func ActorFrom(r *http.Request) service.Actor {
	s, ok := utils.SessionFrom(r.Context())
	if !ok {
		return service.Actor{}
	}
	return service.Actor{ID: s.UserID, Role: s.Role}
}
