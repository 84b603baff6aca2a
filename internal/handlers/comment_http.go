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

type CommentHTTP struct {
	svc *service.CommentService
	log zerolog.Logger
}

func NewCommentHTTP(s *service.CommentService, log zerolog.Logger) *CommentHTTP {
	return &CommentHTTP{svc: s, log: log}
}

// GET /api/chamados/{id}/comentarios
func (h *CommentHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.ListForTicket(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if items == nil {
			items = []models.Comment{}
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// POST /api/chamados/{id}/comentarios {conteudo, publico?}
func (h *CommentHTTP) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Content string `json:"conteudo"`
			Public  *bool  `json:"publico"`
		}
		if !decode(w, r, &in) {
			return
		}
		public := in.Public == nil || *in.Public
		c, err := h.svc.Add(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"), in.Content, public)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}

// DELETE /api/chamados/{id}/comentarios/{comentarioId}
func (h *CommentHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.svc.Remove(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "comentarioId"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
