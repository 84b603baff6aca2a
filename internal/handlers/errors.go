package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain errors to 4xx responses. Anything else is logged and
// answered with a generic 500 carrying the request id.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		utils.Error(w, status, err.Error())
		return
	}
	reqID := middleware.GetReqID(r.Context())
	log.Error().Err(err).Str("request_id", reqID).Str("path", r.URL.Path).Msg("request failed")
	utils.JSON(w, http.StatusInternalServerError, map[string]string{
		"error":     "internal error",
		"requestId": reqID,
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := utils.DecodeJSON(w, r, v); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
