package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"helpdesk/internal/utils"
)

func Recoverer(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					reqID := middleware.GetReqID(r.Context())
					l.Error().
						Interface("panic", rec).
						Str("request_id", reqID).
						Bytes("stack", debug.Stack()).
						Msg("panic")
					utils.JSON(w, http.StatusInternalServerError, map[string]string{
						"error":     "internal error",
						"requestId": reqID,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
