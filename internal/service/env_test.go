package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"helpdesk/internal/models"
	"helpdesk/internal/repository/memory"
	"helpdesk/internal/utils"
)

type testEnv struct {
	svc      *Services
	store    *memory.Store
	notifier *NotificationService
	tickets  *TicketService
	comments *CommentService
	users    *UserService
	articles *ArticleService
	reports  *ReportService
	auth     *AuthService

	admin, tech, tech2, colab, colab2 Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost
	log := zerolog.Nop()
	store := memory.New()

	svc := New(store, "test-secret", time.Hour, log)
	e := &testEnv{
		svc:      svc,
		store:    store,
		notifier: svc.Notifications,
		tickets:  svc.Tickets,
		comments: svc.Comments,
		users:    svc.Users,
		articles: svc.Articles,
		reports:  svc.Reports,
		auth:     svc.Auth,
	}

	seeded, err := e.users.Seed(context.Background(), []NewUser{
		{Name: "Ana Admin", Login: "admin", Password: "admin123", Role: models.RoleAdministrator},
		{Name: "Tiago Técnico", Login: "tecnico", Password: "tecnico123", Role: models.RoleTechnician},
		{Name: "Tânia Técnica", Login: "tecnico2", Password: "tecnico123", Role: models.RoleTechnician},
		{Name: "Carlos Colaborador", Login: "colab", Password: "colab123", Role: models.RoleCollaborator},
		{Name: "Clara Colaboradora", Login: "colab2", Password: "colab123", Role: models.RoleCollaborator},
	})
	require.NoError(t, err)
	actors := make([]Actor, len(seeded))
	for i, u := range seeded {
		actors[i] = Actor{ID: u.ID, Role: u.Role}
	}
	e.admin, e.tech, e.tech2, e.colab, e.colab2 = actors[0], actors[1], actors[2], actors[3], actors[4]
	return e
}

func (e *testEnv) newTicket(t *testing.T, owner Actor, title string, priority int) *models.Ticket {
	t.Helper()
	tk, err := e.tickets.Create(context.Background(), owner, NewTicket{
		Title:       title,
		Description: "details for " + title,
		Priority:    priority,
	})
	require.NoError(t, err)
	return tk
}

func (e *testEnv) notifications(t *testing.T, a Actor) []models.Notification {
	t.Helper()
	list, err := e.notifier.List(context.Background(), a)
	require.NoError(t, err)
	return list
}

func (e *testEnv) stored(t *testing.T, id string) *models.Ticket {
	t.Helper()
	tk, err := e.store.Tickets().Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, tk)
	return tk
}

// force writes a status directly, bypassing the service, to set up a test state.
func (e *testEnv) force(t *testing.T, id string, s models.Status) {
	t.Helper()
	tk := e.stored(t, id)
	tk.Status = s
	tk.ClosedAt = nil
	if s.IsTerminal() {
		now := time.Now().UTC()
		tk.ClosedAt = &now
	}
	require.NoError(t, e.store.Tickets().Save(context.Background(), tk))
}
