package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"helpdesk/internal/config"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

const SessionCookie = "session"

// WithAuth resolves the session token to a user. The role is read from the store on
// every request, so role changes and deactivation apply to live sessions.
func WithAuth(log zerolog.Logger, cfg config.Config, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Read JWT from cookie "session" or Authorization: Bearer
			var tok string
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}

			if tok == "" {
				next.ServeHTTP(w, r) // unauthenticated; RequireAuth decides
				return
			}

			claims, err := utils.ParseJWT(cfg.SessionSecret, tok)
			if err != nil {
				// clear broken/expired cookie so it stops being sent
				ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				log.Error().Err(err).Str("user_id", claims.UserID).Msg("session user lookup failed")
				utils.Error(w, http.StatusInternalServerError, "internal error")
				return
			}
			if u == nil || !u.Active {
				ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.WithSession(r.Context(), utils.Session{UserID: u.ID, Role: u.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SetSession(w http.ResponseWriter, token string, cfg config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Env != "dev",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.SessionTTL.Seconds()),
	})
}

func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
