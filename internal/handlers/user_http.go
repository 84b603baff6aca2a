package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"helpdesk/internal/middleware"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

type UserHTTP struct {
	svc *service.UserService
	log zerolog.Logger
}

func NewUserHTTP(s *service.UserService, log zerolog.Logger) *UserHTTP {
	return &UserHTTP{svc: s, log: log}
}

// GET /api/usuarios?q=&nivelAcesso=&ativo=&limit=&offset=
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.UserFilter{
			Q:      qv.Get("q"),
			Role:   qv.Get("nivelAcesso"),
			Limit:  utils.QueryInt(qv, "limit", 20, 1, repository.MaxPageSize),
			Offset: utils.QueryInt(qv, "offset", 0, 0, math.MaxInt32),
		}
		if s := qv.Get("ativo"); s != "" {
			v, _ := strconv.ParseBool(s)
			f.Active = &v
		}

		users, total, err := h.svc.List(r.Context(), middleware.ActorFrom(r), f)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if users == nil {
			users = []models.User{}
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": total})
	}
}

// POST /api/usuarios {nome, login, senha, nivelAcesso}
func (h *UserHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name     string      `json:"nome"`
			Login    string      `json:"login"`
			Password string      `json:"senha"`
			Role     models.Role `json:"nivelAcesso"`
		}
		if !decode(w, r, &in) {
			return
		}
		u, err := h.svc.Create(r.Context(), middleware.ActorFrom(r), service.NewUser{
			Name: in.Name, Login: in.Login, Password: in.Password, Role: in.Role,
		})
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, u)
	}
}

// PUT /api/usuarios/{id} {nome?, nivelAcesso?, ativo?, senha?}
func (h *UserHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name     *string      `json:"nome"`
			Role     *models.Role `json:"nivelAcesso"`
			Active   *bool        `json:"ativo"`
			Password *string      `json:"senha"`
		}
		if !decode(w, r, &in) {
			return
		}
		actor, id := middleware.ActorFrom(r), chi.URLParam(r, "id")
		u, err := h.svc.Update(r.Context(), actor, id, service.UserPatch{Name: in.Name, Role: in.Role, Active: in.Active})
		if err == nil && in.Password != nil {
			err = h.svc.ResetPassword(r.Context(), actor, id, *in.Password)
		}
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

// DELETE /api/usuarios/{id} deactivates; history stays attached to the account.
func (h *UserHTTP) Deactivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.svc.Deactivate(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}
