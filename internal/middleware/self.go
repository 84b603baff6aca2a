package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/access"
	"helpdesk/internal/utils"
)

// RequireSelfOr allows if {id} == ctx user id OR the user holds action.
func RequireSelfOr(action access.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFrom(r)
			if actor.Can(action) {
				next.ServeHTTP(w, r)
				return
			}
			// otherwise only self
			if actor.ID != "" && chi.URLParam(r, "id") == actor.ID {
				next.ServeHTTP(w, r)
				return
			}
			utils.Error(w, http.StatusForbidden, "forbidden")
		})
	}
}
