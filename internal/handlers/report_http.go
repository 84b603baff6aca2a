package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"helpdesk/internal/middleware"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxReportDays   = 3650
)

type ReportsHTTP struct {
	svc *service.ReportService
	log zerolog.Logger
}

func NewReportsHTTP(s *service.ReportService, log zerolog.Logger) *ReportsHTTP {
	return &ReportsHTTP{svc: s, log: log}
}

// since reads ?dias=N (last N days) or ?desde=YYYY-MM-DD; neither means all tickets.
func since(r *http.Request) (time.Time, bool) {
	qv := r.URL.Query()
	if d := utils.QueryInt(qv, "dias", 0, 0, maxReportDays); d > 0 {
		return time.Now().AddDate(0, 0, -d), true
	}
	if s := qv.Get("desde"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		return t, err == nil
	}
	return time.Time{}, true
}

// GET /api/relatorios/resumo
func (h *ReportsHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := since(r)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "desde must be YYYY-MM-DD")
			return
		}
		sum, err := h.svc.Summary(r.Context(), middleware.ActorFrom(r), from)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		utils.JSON(w, http.StatusOK, sum)
	}
}

// GET /api/relatorios/exportar
func (h *ReportsHTTP) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := since(r)
		if !ok {
			utils.Error(w, http.StatusBadRequest, "desde must be YYYY-MM-DD")
			return
		}
		// buffered so a failure can still become a proper error response
		var buf bytes.Buffer
		if err := h.svc.Export(r.Context(), middleware.ActorFrom(r), from, &buf); err != nil {
			writeError(w, r, h.log, err)
			return
		}
		name := "relatorio-" + time.Now().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
