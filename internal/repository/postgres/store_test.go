package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/database"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

// Set HELPDESK_TEST_DB_DSN to a disposable database to run these.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("HELPDESK_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("HELPDESK_TEST_DB_DSN not set")
	}
	require.NoError(t, database.Migrate(dsn))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewStore(pool)
}

func newUser(t *testing.T, s *Store, role models.Role) *models.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      "Test " + role.String(),
		Login:     "user-" + uuid.NewString()[:8],
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Users().Create(context.Background(), u, "hash"))
	return u
}

func TestUserRoundTripAndDuplicateLogin(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	u := newUser(t, s, models.RoleTechnician)

	got, hash, err := s.Users().GetByLogin(ctx, u.Login)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleTechnician, got.Role)
	assert.Equal(t, "hash", hash)

	dup := *u
	dup.ID = uuid.NewString()
	err = s.Users().Create(ctx, &dup, "x")
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	missing, err := s.Users().Get(ctx, uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := newUser(t, s, models.RoleCollaborator)
	tech := newUser(t, s, models.RoleTechnician)

	now := time.Now().UTC().Truncate(time.Millisecond)
	tk := &models.Ticket{
		ID: uuid.NewString(), Title: "Printer", Description: "jammed", OwnerID: owner.ID,
		Status: models.StatusOpen, Priority: 2, Category: "hardware", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Tickets().Create(ctx, tk))

	tk.AssigneeID = &tech.ID
	tk.Status = models.StatusInProgress
	require.NoError(t, s.Tickets().Save(ctx, tk))

	list, err := s.Tickets().List(ctx, repository.TicketFilter{AssigneeID: tech.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusInProgress, list[0].Status)

	n, err := s.Tickets().Count(ctx, repository.TicketFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c := &models.Comment{ID: uuid.NewString(), TicketID: tk.ID, AuthorID: owner.ID, AuthorName: owner.Name, Content: "hi", Public: true, CreatedAt: now}
	require.NoError(t, s.Comments().Create(ctx, c))

	require.NoError(t, s.Tickets().Delete(ctx, tk.ID))
	comments, err := s.Comments().ListByTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestWithTxRollsBack(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := newUser(t, s, models.RoleCollaborator)
	boom := errors.New("boom")

	id := uuid.NewString()
	err := s.WithTx(ctx, func(tx repository.Store) error {
		ticketID := id
		n := &models.Notification{ID: uuid.NewString(), RecipientID: owner.ID, Type: models.NotificationStatusChanged,
			Title: "t", Message: "m", TicketID: &ticketID, CreatedAt: time.Now()}
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.Notifications().ListByRecipient(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTicketListOrderIsStableAndSearchIgnoresAccents(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	owner := newUser(t, s, models.RoleCollaborator)

	// identical timestamps: insertion order decides, newest first
	now := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for _, title := range []string{"Impressão falhou", "Rede lenta", "Teclado quebrado"} {
		tk := &models.Ticket{
			ID: uuid.NewString(), Title: title, Description: "d", OwnerID: owner.ID,
			Status: models.StatusOpen, Priority: 3, Category: "hardware", CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, s.Tickets().Create(ctx, tk))
		ids = append(ids, tk.ID)
	}

	var paged []string
	for offset := 0; offset < 3; offset++ {
		page, err := s.Tickets().List(ctx, repository.TicketFilter{OwnerID: owner.ID, Limit: 1, Offset: offset})
		require.NoError(t, err)
		require.Len(t, page, 1)
		paged = append(paged, page[0].ID)
	}
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, paged)

	found, err := s.Tickets().List(ctx, repository.TicketFilter{OwnerID: owner.ID, Q: "IMPRESSAO"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ids[0], found[0].ID)
}
