package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

// Suggester proposes knowledge-base articles for free text.
type Suggester interface {
	Suggest(ctx context.Context, text string, limit int) ([]models.Suggestion, error)
}

type TicketService struct {
	store     repository.Store
	notifier  *NotificationService
	suggester Suggester
	log       zerolog.Logger
	now       func() time.Time
}

func NewTicketService(store repository.Store, notifier *NotificationService, suggester Suggester, log zerolog.Logger) *TicketService {
	return &TicketService{store: store, notifier: notifier, suggester: suggester, log: log, now: time.Now}
}

type NewTicket struct {
	Title       string
	Description string
	Priority    int // 0 selects the default
	Category    string
}

// TicketPatch is a partial update. Nil fields are left alone.
type TicketPatch struct {
	Status     *models.Status
	AssigneeID *string
	Priority   *int
	Category   *string
}

func (s *TicketService) Create(ctx context.Context, actor Actor, in NewTicket) (*models.Ticket, error) {
	if err := actor.require(access.TicketCreate); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" || desc == "" {
		return nil, invalid("title and description are required")
	}
	prio := in.Priority
	if prio == 0 {
		prio = models.DefaultPriority
	}
	if prio < models.MinPriority || prio > models.MaxPriority {
		return nil, invalid("priority must be between %d and %d", models.MinPriority, models.MaxPriority)
	}
	cat := strings.TrimSpace(in.Category)
	if cat == "" {
		cat = models.DefaultCategory
	}

	now := s.now().UTC()
	t := &models.Ticket{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  desc,
		OwnerID:      actor.ID,
		Status:       models.StatusOpen,
		Priority:     prio,
		Category:     cat,
		CreatedAt:    now,
		UpdatedAt:    now,
		AISuggestion: s.suggest(ctx, title+" "+desc),
	}
	if err := s.store.Tickets().Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}
	s.log.Info().Str("ticket_id", t.ID).Str("owner_id", t.OwnerID).Int("priority", prio).Msg("ticket created")
	return t, nil
}

// suggest never fails ticket creation; a broken suggester only costs the hint.
func (s *TicketService) suggest(ctx context.Context, text string) string {
	if s.suggester == nil {
		return ""
	}
	list, err := s.suggester.Suggest(ctx, text, 1)
	if err != nil {
		s.log.Warn().Err(err).Msg("article suggestion failed")
		return ""
	}
	if len(list) == 0 {
		return ""
	}
	best := list[0]
	return fmt.Sprintf("Veja o artigo %q (confiança %.0f%%)", best.Title, best.Confidence*100)
}

func (s *TicketService) Get(ctx context.Context, actor Actor, id string) (*models.Ticket, error) {
	t, err := load(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, t) {
		return nil, forbidden("ticket %s is not visible to this user", id)
	}
	return t, nil
}

func (s *TicketService) Assign(ctx context.Context, actor Actor, ticketID, technicianID string) (*models.Ticket, error) {
	var out *models.Ticket
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		t, err := load(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if err := s.assign(ctx, tx, actor, t, technicianID); err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (s *TicketService) ChangeStatus(ctx context.Context, actor Actor, ticketID string, to models.Status) (*models.Ticket, error) {
	var out *models.Ticket
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		t, err := load(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if err := s.changeStatus(ctx, tx, actor, t, to); err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

// Update applies a patch in one transaction: assignment, then status, then field edits.
func (s *TicketService) Update(ctx context.Context, actor Actor, id string, p TicketPatch) (*models.Ticket, error) {
	var out *models.Ticket
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		t, err := load(ctx, tx, id)
		if err != nil {
			return err
		}
		before := t.Status
		if p.AssigneeID != nil && !t.AssignedTo(*p.AssigneeID) {
			if err := s.assign(ctx, tx, actor, t, *p.AssigneeID); err != nil {
				return err
			}
		}
		// asking for the current status is a self-loop and is rejected, unless the
		// assignment above already moved the ticket there
		if p.Status != nil && (*p.Status != t.Status || *p.Status == before) {
			if err := s.changeStatus(ctx, tx, actor, t, *p.Status); err != nil {
				return err
			}
		}
		if p.Priority != nil || p.Category != nil {
			if err := s.edit(ctx, tx, actor, t, p.Priority, p.Category); err != nil {
				return err
			}
		}
		out = t
		return nil
	})
	return out, err
}

func (s *TicketService) assign(ctx context.Context, tx repository.Store, actor Actor, t *models.Ticket, technicianID string) error {
	if err := actor.require(access.TicketAssign); err != nil {
		return err
	}
	if !actor.isAdmin() {
		if technicianID != actor.ID {
			return forbidden("technicians may only assign tickets to themselves")
		}
		if t.AssigneeID != nil && *t.AssigneeID != actor.ID {
			return forbidden("ticket is already assigned to another technician")
		}
	}
	tech, err := tx.Users().Get(ctx, technicianID)
	if err != nil {
		return err
	}
	if tech == nil || !tech.Active {
		return invalid("technician %s does not exist or is inactive", technicianID)
	}
	if tech.Role != models.RoleTechnician && tech.Role != models.RoleAdministrator {
		return invalid("user %s cannot be assigned tickets", technicianID)
	}

	from := t.Status
	t.AssigneeID = &technicianID
	t.UpdatedAt = s.now().UTC()
	if from == models.StatusOpen {
		t.Status = models.StatusInProgress
	}
	if err := tx.Tickets().Save(ctx, t); err != nil {
		return fmt.Errorf("saving ticket: %w", err)
	}

	n := s.notifier.WithStore(tx)
	ref := ticketRef(t.ID)
	if _, err := n.Notify(ctx, technicianID, models.NotificationTicketAssigned,
		"Chamado atribuído a você",
		fmt.Sprintf("O chamado %s (%s) foi atribuído a você.", ref, t.Title), &t.ID); err != nil {
		return err
	}
	if t.Status != from {
		ticketTransitions.WithLabelValues(string(from), string(t.Status)).Inc()
		if _, err := n.Notify(ctx, t.OwnerID, models.NotificationStatusChanged,
			"Técnico atribuído ao seu chamado",
			fmt.Sprintf("%s atendendo o chamado %s. Status: %s.", tech.Name, ref, t.Status.Label()), &t.ID); err != nil {
			return err
		}
	}
	s.log.Info().
		Str("ticket_id", t.ID).
		Str("assignee_id", technicianID).
		Str("actor_id", actor.ID).
		Msg("ticket assigned")
	return nil
}

func (s *TicketService) changeStatus(ctx context.Context, tx repository.Store, actor Actor, t *models.Ticket, to models.Status) error {
	if err := canModify(actor, t); err != nil {
		return err
	}
	if !to.Valid() {
		return invalid("unknown status %q", to)
	}
	from := t.Status
	if !models.CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}

	now := s.now().UTC()
	t.Status = to
	t.UpdatedAt = now
	if to.IsTerminal() {
		t.ClosedAt = &now
	} else {
		t.ClosedAt = nil
	}
	if err := tx.Tickets().Save(ctx, t); err != nil {
		return fmt.Errorf("saving ticket: %w", err)
	}
	ticketTransitions.WithLabelValues(string(from), string(to)).Inc()

	ref := ticketRef(t.ID)
	typ, title := models.NotificationStatusChanged, "Status do chamado atualizado"
	switch {
	case to == models.StatusResolved:
		typ, title = models.NotificationTicketResolved, "Chamado resolvido"
	case from.IsTerminal() && !to.IsTerminal():
		typ, title = models.NotificationTicketReopened, "Chamado reaberto"
	}
	msg := fmt.Sprintf("O chamado %s mudou de %s para %s.", ref, from.Label(), to.Label())

	n := s.notifier.WithStore(tx)
	if _, err := n.Notify(ctx, t.OwnerID, typ, title, msg, &t.ID); err != nil {
		return err
	}
	if a := t.AssigneeID; a != nil && *a != actor.ID && *a != t.OwnerID {
		if _, err := n.Notify(ctx, *a, models.NotificationStatusChanged, "Status do chamado atualizado", msg, &t.ID); err != nil {
			return err
		}
	}
	s.log.Info().
		Str("ticket_id", t.ID).
		Str("status_from", string(from)).
		Str("status_to", string(to)).
		Str("actor_id", actor.ID).
		Msg("ticket status changed")
	return nil
}

func (s *TicketService) edit(ctx context.Context, tx repository.Store, actor Actor, t *models.Ticket, priority *int, category *string) error {
	if err := canModify(actor, t); err != nil {
		return err
	}
	if priority != nil {
		if *priority < models.MinPriority || *priority > models.MaxPriority {
			return invalid("priority must be between %d and %d", models.MinPriority, models.MaxPriority)
		}
		t.Priority = *priority
	}
	if category != nil {
		c := strings.TrimSpace(*category)
		if c == "" {
			return invalid("category cannot be empty")
		}
		t.Category = c
	}
	t.UpdatedAt = s.now().UTC()
	return tx.Tickets().Save(ctx, t)
}

// ListForUser returns every ticket owned by userID, newest first.
func (s *TicketService) ListForUser(ctx context.Context, actor Actor, userID string) ([]models.Ticket, error) {
	if actor.ID != userID {
		if err := actor.require(access.TicketViewAll); err != nil {
			return nil, err
		}
	} else if err := actor.require(access.TicketViewOwn); err != nil {
		return nil, err
	}
	return collectTickets(ctx, s.store.Tickets(), repository.TicketFilter{OwnerID: userID})
}

// List is the scoped listing: without ticket.view.all only owned tickets are returned.
func (s *TicketService) List(ctx context.Context, actor Actor, f repository.TicketFilter) ([]models.Ticket, int, error) {
	if !actor.Can(access.TicketViewAll) {
		if err := actor.require(access.TicketViewOwn); err != nil {
			return nil, 0, err
		}
		f.OwnerID = actor.ID
	}
	total, err := s.store.Tickets().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.store.Tickets().List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// SLADueToday returns open tickets in scope whose SLA deadline falls on now's calendar day.
func (s *TicketService) SLADueToday(ctx context.Context, actor Actor, now time.Time) ([]models.Ticket, error) {
	f := repository.TicketFilter{}
	if !actor.Can(access.TicketViewAll) {
		if err := actor.require(access.TicketViewOwn); err != nil {
			return nil, err
		}
		f.OwnerID = actor.ID
	}
	all, err := collectTickets(ctx, s.store.Tickets(), f)
	if err != nil {
		return nil, err
	}
	y, m, d := now.Date()
	var out []models.Ticket
	for _, t := range all {
		if t.Status.IsTerminal() {
			continue
		}
		dy, dm, dd := t.SLADueAt().In(now.Location()).Date()
		if dy == y && dm == m && dd == d {
			out = append(out, t)
		}
	}
	return out, nil
}

// Remove hard-deletes the ticket. Comments and notifications are kept.
func (s *TicketService) Remove(ctx context.Context, actor Actor, id string) error {
	if err := actor.require(access.TicketDelete); err != nil {
		return err
	}
	if _, err := load(ctx, s.store, id); err != nil {
		return err
	}
	if err := s.store.Tickets().Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting ticket: %w", err)
	}
	s.log.Info().Str("ticket_id", id).Str("actor_id", actor.ID).Msg("ticket removed")
	return nil
}

func load(ctx context.Context, store repository.Store, id string) (*models.Ticket, error) {
	t, err := store.Tickets().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("ticket", id)
	}
	return t, nil
}

func canView(actor Actor, t *models.Ticket) bool {
	switch {
	case actor.Can(access.TicketViewAll):
		return true
	case t.AssignedTo(actor.ID):
		return true
	default:
		return t.OwnerID == actor.ID && actor.Can(access.TicketViewOwn)
	}
}

// canModify covers status and field edits. Technicians work on their own or unassigned tickets.
func canModify(actor Actor, t *models.Ticket) error {
	if err := actor.require(access.TicketUpdate); err != nil {
		return err
	}
	if actor.isAdmin() || t.AssigneeID == nil || *t.AssigneeID == actor.ID {
		return nil
	}
	return forbidden("ticket %s is assigned to another technician", t.ID)
}

// collectTickets pages through every ticket matching f.
func collectTickets(ctx context.Context, repo repository.TicketRepository, f repository.TicketFilter) ([]models.Ticket, error) {
	f.Limit = repository.MaxPageSize
	var out []models.Ticket
	for f.Offset = 0; ; f.Offset += f.Limit {
		page, err := repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < f.Limit {
			return out, nil
		}
	}
}
