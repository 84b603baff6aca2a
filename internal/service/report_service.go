package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

const highPriority = 4

type ReportService struct {
	tickets repository.TicketRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewReportService(tickets repository.TicketRepository, log zerolog.Logger) *ReportService {
	return &ReportService{tickets: tickets, log: log, now: time.Now}
}

type Summary struct {
	Total              int            `json:"total"`
	Open               int            `json:"abertos"`
	InProgress         int            `json:"emAndamento"`
	Resolved           int            `json:"resolvidos"`
	Closed             int            `json:"fechados"`
	ClosurePercent     float64        `json:"percentualFechamento"`
	AvgResolutionHours float64        `json:"mediaHorasResolucao"`
	Resolved7d         int            `json:"resolvidos7d"`
	HighPriorityOpen   int            `json:"altaPrioridadeAbertos"`
	SLABreached        int            `json:"slaVencidos"`
	ByStatus           map[string]int `json:"porStatus"`
	ByPriority         map[string]int `json:"porPrioridade"`
	ByCategory         map[string]int `json:"porCategoria"`
}

// Summary aggregates tickets created at or after since; a zero since covers all tickets.
func (s *ReportService) Summary(ctx context.Context, actor Actor, since time.Time) (*Summary, error) {
	if err := actor.require(access.ReportView); err != nil {
		return nil, err
	}
	list, err := s.collect(ctx, since)
	if err != nil {
		return nil, err
	}
	return summarize(list, s.now()), nil
}

func (s *ReportService) collect(ctx context.Context, since time.Time) ([]models.Ticket, error) {
	all, err := collectTickets(ctx, s.tickets, repository.TicketFilter{})
	if err != nil {
		return nil, err
	}
	if since.IsZero() {
		return all, nil
	}
	out := all[:0]
	for _, t := range all {
		if !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func summarize(list []models.Ticket, now time.Time) *Summary {
	sum := &Summary{
		Total:      len(list),
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
		ByCategory: map[string]int{},
	}
	var resolvedHours float64
	var resolvedCount int
	for _, t := range list {
		sum.ByStatus[string(t.Status)]++
		sum.ByPriority[strconv.Itoa(t.Priority)]++
		sum.ByCategory[t.Category]++

		switch t.Status {
		case models.StatusOpen:
			sum.Open++
		case models.StatusInProgress:
			sum.InProgress++
		case models.StatusResolved:
			sum.Resolved++
		case models.StatusClosed:
			sum.Closed++
		}

		if t.ClosedAt != nil {
			resolvedHours += t.ClosedAt.Sub(t.CreatedAt).Hours()
			resolvedCount++
			if now.Sub(*t.ClosedAt) <= 7*24*time.Hour {
				sum.Resolved7d++
			}
			continue
		}
		if t.Priority >= highPriority {
			sum.HighPriorityOpen++
		}
		if now.After(t.SLADueAt()) {
			sum.SLABreached++
		}
	}
	if sum.Total > 0 {
		sum.ClosurePercent = round1(float64(sum.Resolved+sum.Closed) / float64(sum.Total) * 100)
	}
	if resolvedCount > 0 {
		sum.AvgResolutionHours = round1(resolvedHours / float64(resolvedCount))
	}
	return sum
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// Export writes an XLSX workbook with a summary sheet and one row per ticket.
func (s *ReportService) Export(ctx context.Context, actor Actor, since time.Time, w io.Writer) error {
	if err := actor.require(access.ReportView); err != nil {
		return err
	}
	list, err := s.collect(ctx, since)
	if err != nil {
		return err
	}
	sum := summarize(list, s.now())

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet, ticketSheet = "Resumo", "Chamados"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Indicador", "Valor"},
		{"Total de chamados", sum.Total},
		{"Abertos", sum.Open},
		{"Em andamento", sum.InProgress},
		{"Resolvidos", sum.Resolved},
		{"Fechados", sum.Closed},
		{"Percentual de fechamento", sum.ClosurePercent},
		{"Média de horas para resolução", sum.AvgResolutionHours},
		{"Resolvidos nos últimos 7 dias", sum.Resolved7d},
		{"Alta prioridade em aberto", sum.HighPriorityOpen},
		{"SLA vencido", sum.SLABreached},
	}
	for _, cat := range sortedKeys(sum.ByCategory) {
		rows = append(rows, []any{"Categoria: " + cat, sum.ByCategory[cat]})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(ticketSheet); err != nil {
		return err
	}
	rows = [][]any{{"ID", "Título", "Status", "Prioridade", "Categoria", "Criado em", "Fechado em", "Prazo SLA"}}
	for _, t := range list {
		closed := ""
		if t.ClosedAt != nil {
			closed = t.ClosedAt.Format(time.RFC3339)
		}
		rows = append(rows, []any{
			t.ID, t.Title, t.Status.Label(), t.Priority, t.Category,
			t.CreatedAt.Format(time.RFC3339), closed, t.SLADueAt().Format(time.RFC3339),
		})
	}
	if err := writeRows(f, ticketSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	s.log.Info().Int("tickets", len(list)).Msg("report exported")
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
