package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"helpdesk/internal/middleware"
	"helpdesk/internal/models"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

type NotificationHTTP struct {
	svc *service.NotificationService
	log zerolog.Logger
}

func NewNotificationHTTP(s *service.NotificationService, log zerolog.Logger) *NotificationHTTP {
	return &NotificationHTTP{svc: s, log: log}
}

func (h *NotificationHTTP) respond(w http.ResponseWriter, r *http.Request, items []models.Notification, err error) {
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	utils.JSON(w, http.StatusOK, items)
}

// GET /api/notificacoes
func (h *NotificationHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context(), middleware.ActorFrom(r))
		h.respond(w, r, items, err)
	}
}

// GET /api/notificacoes/nao-lidas
func (h *NotificationHTTP) Unread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.ListUnread(r.Context(), middleware.ActorFrom(r))
		h.respond(w, r, items, err)
	}
}

// GET /api/notificacoes/usuario/{id}
func (h *NotificationHTTP) ListForUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.ListFor(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"))
		h.respond(w, r, items, err)
	}
}

// POST /api/notificacoes/{id}/ler
func (h *NotificationHTTP) MarkRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.svc.MarkRead(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, n)
	}
}

// POST /api/notificacoes/ler-todas
func (h *NotificationHTTP) MarkAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.svc.MarkAllRead(r.Context(), middleware.ActorFrom(r))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]int{"atualizadas": n})
	}
}
