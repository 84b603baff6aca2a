package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"helpdesk/internal/middleware"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

// TicketHTTP wires ticket endpoints to the ticket service.
type TicketHTTP struct {
	svc *service.TicketService
	log zerolog.Logger
}

func NewTicketHTTP(s *service.TicketService, log zerolog.Logger) *TicketHTTP {
	return &TicketHTTP{svc: s, log: log}
}

// GET /api/chamados?status=&prioridade=&categoria=&tecnico=&q=&limit=&offset=
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.TicketFilter{
			Q:          strings.TrimSpace(qv.Get("q")),
			AssigneeID: strings.TrimSpace(qv.Get("tecnico")),
			Priority:   utils.QueryInt(qv, "prioridade", 0, 0, models.MaxPriority),
			Category:   strings.TrimSpace(qv.Get("categoria")),
			Limit:      utils.QueryInt(qv, "limit", 50, 1, repository.MaxPageSize),
			Offset:     utils.QueryInt(qv, "offset", 0, 0, math.MaxInt32),
		}
		if s := strings.TrimSpace(qv.Get("status")); s != "" {
			st, err := models.ParseStatus(s)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			f.Status = string(st)
		}

		items, total, err := h.svc.List(r.Context(), middleware.ActorFrom(r), f)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if items == nil {
			items = []models.Ticket{}
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

// GET /api/chamados/sla-hoje
func (h *TicketHTTP) SLAToday() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.SLADueToday(r.Context(), middleware.ActorFrom(r), time.Now())
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if items == nil {
			items = []models.Ticket{}
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/chamados/{id}
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.svc.Get(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, ticketView(t))
	}
}

// POST /api/chamados {titulo, descricao, prioridade, categoria}
func (h *TicketHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Title       string `json:"titulo"`
			Description string `json:"descricao"`
			Priority    int    `json:"prioridade"`
			Category    string `json:"categoria"`
		}
		if !decode(w, r, &in) {
			return
		}
		t, err := h.svc.Create(r.Context(), middleware.ActorFrom(r), service.NewTicket{
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			Category:    in.Category,
		})
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, ticketView(t))
	}
}

// PATCH /api/chamados/{id} {status?, tecnicoId?, prioridade?, categoria?}
func (h *TicketHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Status     *string `json:"status"`
			AssigneeID *string `json:"tecnicoId"`
			Priority   *int    `json:"prioridade"`
			Category   *string `json:"categoria"`
		}
		if !decode(w, r, &in) {
			return
		}
		p := service.TicketPatch{AssigneeID: in.AssigneeID, Priority: in.Priority, Category: in.Category}
		if in.Status != nil {
			st, err := models.ParseStatus(*in.Status)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			p.Status = &st
		}
		t, err := h.svc.Update(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"), p)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, ticketView(t))
	}
}

// PUT /api/chamados/{id}/atribuir {id_tecnico}
func (h *TicketHTTP) Assign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			TechnicianID string `json:"id_tecnico"`
		}
		if !decode(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.TechnicianID) == "" {
			utils.Error(w, http.StatusBadRequest, "id_tecnico is required")
			return
		}
		t, err := h.svc.Assign(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"), in.TechnicianID)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, ticketView(t))
	}
}

// DELETE /api/chamados/{id}
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Remove(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type ticketResponse struct {
	*models.Ticket
	SLADueAt time.Time       `json:"prazoSla"`
	Next     []models.Status `json:"proximosStatus"`
}

func ticketView(t *models.Ticket) ticketResponse {
	return ticketResponse{Ticket: t, SLADueAt: t.SLADueAt(), Next: models.NextStatuses(t.Status)}
}
