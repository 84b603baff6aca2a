// Package memory is the process-local repository backend. Nothing survives a
// restart.
package memory

import (
	"context"
	"sync"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type userRow struct {
	user models.User
	hash string
}

type views struct {
	users         rowset[userRow]
	tickets       rowset[models.Ticket]
	comments      rowset[models.Comment]
	notifications rowset[models.Notification]
	articles      rowset[models.Article]
}

func (v views) Users() repository.UserRepository       { return &userRepo{rows: v.users} }
func (v views) Tickets() repository.TicketRepository   { return &ticketRepo{rows: v.tickets} }
func (v views) Comments() repository.CommentRepository { return &commentRepo{rows: v.comments} }
func (v views) Notifications() repository.NotificationRepository {
	return &notificationRepo{rows: v.notifications}
}
func (v views) Articles() repository.ArticleRepository { return &articleRepo{rows: v.articles} }

// Store keeps every entity in maps guarded by a single RWMutex. Writes outside a
// transaction replace whole records: the last writer wins.
type Store struct {
	views

	mu   sync.RWMutex
	txMu sync.Mutex

	userRows         *table[userRow]
	ticketRows       *table[models.Ticket]
	commentRows      *table[models.Comment]
	notificationRows *table[models.Notification]
	articleRows      *table[models.Article]
}

func New() *Store {
	s := &Store{
		userRows:         newTable[userRow](),
		ticketRows:       newTable[models.Ticket](),
		commentRows:      newTable[models.Comment](),
		notificationRows: newTable[models.Notification](),
		articleRows:      newTable[models.Article](),
	}
	s.views = views{
		users:         locked[userRow]{mu: &s.mu, t: s.userRows},
		tickets:       locked[models.Ticket]{mu: &s.mu, t: s.ticketRows},
		comments:      locked[models.Comment]{mu: &s.mu, t: s.commentRows},
		notifications: locked[models.Notification]{mu: &s.mu, t: s.notificationRows},
		articles:      locked[models.Article]{mu: &s.mu, t: s.articleRows},
	}
	return s
}

// WithTx serialises transactions and applies their writes in one step.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{
		userBuf:         newOverlay(s.views.users),
		ticketBuf:       newOverlay(s.views.tickets),
		commentBuf:      newOverlay(s.views.comments),
		notificationBuf: newOverlay(s.views.notifications),
		articleBuf:      newOverlay(s.views.articles),
	}
	tx.views = views{
		users:         tx.userBuf,
		tickets:       tx.ticketBuf,
		comments:      tx.commentBuf,
		notifications: tx.notificationBuf,
		articles:      tx.articleBuf,
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx.userBuf.applyTo(s.userRows)
	tx.ticketBuf.applyTo(s.ticketRows)
	tx.commentBuf.applyTo(s.commentRows)
	tx.notificationBuf.applyTo(s.notificationRows)
	tx.articleBuf.applyTo(s.articleRows)
	return nil
}

type txStore struct {
	views

	userBuf         *overlay[userRow]
	ticketBuf       *overlay[models.Ticket]
	commentBuf      *overlay[models.Comment]
	notificationBuf *overlay[models.Notification]
	articleBuf      *overlay[models.Article]
}

// WithTx inside a transaction joins it.
func (t *txStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t)
}
