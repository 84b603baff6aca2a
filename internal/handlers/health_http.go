package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"helpdesk/internal/utils"
)

// Pinger is implemented by stores backed by an external database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports ok, or 503 when the store is configured but unreachable. A nil
// pinger (the memory store) is always healthy.
func Health(p Pinger, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("health check: store unreachable")
				utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
