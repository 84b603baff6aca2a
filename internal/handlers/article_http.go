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

type ArticleHTTP struct {
	svc *service.ArticleService
	log zerolog.Logger
}

func NewArticleHTTP(s *service.ArticleService, log zerolog.Logger) *ArticleHTTP {
	return &ArticleHTTP{svc: s, log: log}
}

type articleRequest struct {
	Title    string   `json:"titulo"`
	Summary  string   `json:"resumo"`
	Content  string   `json:"conteudo"`
	Category string   `json:"categoria"`
	Tags     []string `json:"tags"`
	Keywords []string `json:"palavrasChave"`
}

func (in articleRequest) input() service.ArticleInput {
	return service.ArticleInput{
		Title: in.Title, Summary: in.Summary, Content: in.Content,
		Category: in.Category, Tags: in.Tags, Keywords: in.Keywords,
	}
}

// GET /api/artigos?q=&categoria=
func (h *ArticleHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		items, err := h.svc.List(r.Context(), middleware.ActorFrom(r), qv.Get("q"), qv.Get("categoria"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if items == nil {
			items = []models.Article{}
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/artigos/sugestoes?texto=&limite=
func (h *ArticleHTTP) Suggest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		items, err := h.svc.Suggest(r.Context(), qv.Get("texto"), utils.QueryInt(qv, "limite", 5, 1, 20))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if items == nil {
			items = []models.Suggestion{}
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/artigos/{id}
func (h *ArticleHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := h.svc.Get(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, a)
	}
}

// POST /api/artigos
func (h *ArticleHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in articleRequest
		if !decode(w, r, &in) {
			return
		}
		a, err := h.svc.Create(r.Context(), middleware.ActorFrom(r), in.input())
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusCreated, a)
	}
}

// PUT /api/artigos/{id}
func (h *ArticleHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in articleRequest
		if !decode(w, r, &in) {
			return
		}
		a, err := h.svc.Update(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id"), in.input())
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, a)
	}
}

// DELETE /api/artigos/{id}
func (h *ArticleHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), middleware.ActorFrom(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
