package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Tickets().Create(ctx, &models.Ticket{ID: "t1", Title: "a", Status: models.StatusOpen}))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx repository.Store) error {
		tk, err := tx.Tickets().Get(ctx, "t1")
		require.NoError(t, err)
		tk.Status = models.StatusInProgress
		require.NoError(t, tx.Tickets().Save(ctx, tk))
		require.NoError(t, tx.Notifications().Create(ctx, &models.Notification{ID: "n1", RecipientID: "u1"}))

		// the transaction sees its own writes
		got, _ := tx.Tickets().Get(ctx, "t1")
		assert.Equal(t, models.StatusInProgress, got.Status)
		return boom
	})
	require.ErrorIs(t, err, boom)

	tk, err := s.Tickets().Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, tk.Status)
	n, err := s.Notifications().Get(ctx, "n1")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Tickets().Create(ctx, &models.Ticket{ID: "t1"}))
	require.NoError(t, s.Tickets().Create(ctx, &models.Ticket{ID: "t2"}))

	err := s.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Tickets().Delete(ctx, "t1"); err != nil {
			return err
		}
		return tx.Tickets().Create(ctx, &models.Ticket{ID: "t3"})
	})
	require.NoError(t, err)

	n, err := s.Tickets().Count(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	gone, _ := s.Tickets().Get(ctx, "t1")
	assert.Nil(t, gone)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	tech := "tech"
	require.NoError(t, s.Tickets().Create(ctx, &models.Ticket{ID: "t1", AssigneeID: &tech}))

	tk, _ := s.Tickets().Get(ctx, "t1")
	*tk.AssigneeID = "someone-else"
	tk.Title = "changed"

	again, _ := s.Tickets().Get(ctx, "t1")
	assert.Equal(t, "tech", *again.AssigneeID)
	assert.Empty(t, again.Title)
}

func TestNotificationSaveKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Notifications().Create(ctx, &models.Notification{ID: id, RecipientID: "u", CreatedAt: at}))
	}

	n, _ := s.Notifications().Get(ctx, "a")
	n.Read = true
	require.NoError(t, s.Notifications().Save(ctx, n))

	list, err := s.Notifications().ListByRecipient(ctx, "u", false)
	require.NoError(t, err)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	unread, err := s.Notifications().ListByRecipient(ctx, "u", true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	assert.ErrorIs(t, s.Notifications().Save(ctx, &models.Notification{ID: "missing"}), repository.ErrNoRows)
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, who := range []string{"u1", "u1", "u2"} {
		require.NoError(t, s.Notifications().Create(ctx, &models.Notification{
			ID: string(rune('a' + i)), RecipientID: who, CreatedAt: time.Now(),
		}))
	}

	changed, err := s.Notifications().MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = s.Notifications().MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, changed)

	unread, _ := s.Notifications().ListByRecipient(ctx, "u2", true)
	assert.Len(t, unread, 1)
}

func TestUserLoginIsUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "1", Login: "Admin"}, "h"))
	err := s.Users().Create(ctx, &models.User{ID: "2", Login: "admin"}, "h")
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, hash, err := s.Users().GetByLogin(ctx, "ADMIN")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "h", hash)
}

func TestConcurrentCreatesKeepLoginUnique(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 50; round++ {
		s := New()
		var wg sync.WaitGroup
		var mu sync.Mutex
		created := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				u := &models.User{ID: fmt.Sprintf("u%d", i), Login: fmt.Sprintf("Ana%c", "aA"[i%2])}
				if err := s.Users().Create(ctx, u, "h"); err == nil {
					mu.Lock()
					created++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, repository.ErrDuplicate)
				}
			}(i)
		}
		wg.Wait()
		require.Equal(t, 1, created, "round %d", round)
	}
}

func TestSaveRejectsTakenLoginInsideTx(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "1", Login: "ana"}, "h"))
	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "2", Login: "bia"}, "h"))

	err := s.WithTx(ctx, func(tx repository.Store) error {
		return tx.Users().Save(ctx, &models.User{ID: "2", Login: "ANA"})
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, err := s.Users().Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "bia", u.Login)
}

func TestTicketListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tickets := []models.Ticket{
		{ID: "1", OwnerID: "u1", Title: "Impressão falhando", CreatedAt: base},
		{ID: "2", OwnerID: "u2", Title: "Wi-Fi lento", CreatedAt: base.Add(time.Hour)},
		{ID: "3", OwnerID: "u1", Title: "Tela preta", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range tickets {
		require.NoError(t, s.Tickets().Create(ctx, &tickets[i]))
	}

	mine, err := s.Tickets().List(ctx, repository.TicketFilter{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "3", mine[0].ID)
	assert.Equal(t, "1", mine[1].ID)

	found, err := s.Tickets().List(ctx, repository.TicketFilter{Q: "impressao"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)

	page, err := s.Tickets().List(ctx, repository.TicketFilter{Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestCommentsAscending(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Now()
	require.NoError(t, s.Comments().Create(ctx, &models.Comment{ID: "late", TicketID: "t", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.Comments().Create(ctx, &models.Comment{ID: "early", TicketID: "t", CreatedAt: base}))
	require.NoError(t, s.Comments().Create(ctx, &models.Comment{ID: "other", TicketID: "x", CreatedAt: base}))

	list, err := s.Comments().ListByTicket(ctx, "t")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].ID)
	assert.Equal(t, "late", list[1].ID)
}
