package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"helpdesk/internal/access"
	"helpdesk/internal/config"
	"helpdesk/internal/middleware"
	"helpdesk/internal/models"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

type AuthHTTP struct {
	svc *service.AuthService
	cfg config.Config
	log zerolog.Logger
}

func NewAuthHTTP(s *service.AuthService, cfg config.Config, log zerolog.Logger) *AuthHTTP {
	return &AuthHTTP{svc: s, cfg: cfg, log: log}
}

// POST /api/auth/login {login, senha}
func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Login    string `json:"login"`
			Password string `json:"senha"`
		}
		if !decode(w, r, &in) {
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Login, in.Password)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}

		middleware.SetSession(w, token, h.cfg)
		utils.JSON(w, http.StatusOK, struct {
			models.User
			Token string `json:"token"`
		}{*u, token})
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSession(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/auth/me
func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.svc.Me(r.Context(), middleware.ActorFrom(r))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

// GET /api/acesso returns the capability table and the status graph the client gates on.
func (h *AuthHTTP) Access() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		graph := make(map[models.Status][]models.Status, len(models.Statuses))
		for _, s := range models.Statuses {
			graph[s] = models.NextStatuses(s)
		}
		utils.JSON(w, http.StatusOK, map[string]any{
			"capacidades": access.Matrix(),
			"transicoes":  graph,
		})
	}
}
