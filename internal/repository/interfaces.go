package repository

import (
	"context"
	"errors"

	"helpdesk/internal/models"
)

var (
	// ErrDuplicate is returned when a unique key (user login) is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNoRows is returned by Save/UpdatePasswordHash when the record is gone.
	ErrNoRows = errors.New("no rows affected")
)

// Lookups return (nil, nil) when the record does not exist.

type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, string /*passwordHash*/, error)
	Save(ctx context.Context, u *models.User) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, f UserFilter) ([]models.User, int, error)
}

type TicketRepository interface {
	Create(ctx context.Context, t *models.Ticket) error
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Save(ctx context.Context, t *models.Ticket) error
	Delete(ctx context.Context, id string) error
	// List is ordered newest first.
	List(ctx context.Context, f TicketFilter) ([]models.Ticket, error)
	Count(ctx context.Context, f TicketFilter) (int, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, id string) (*models.Comment, error)
	// ListByTicket is ordered by creation time ascending.
	ListByTicket(ctx context.Context, ticketID string) ([]models.Comment, error)
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	Get(ctx context.Context, id string) (*models.Notification, error)
	Save(ctx context.Context, n *models.Notification) error
	// ListByRecipient is ordered newest first.
	ListByRecipient(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type ArticleRepository interface {
	Create(ctx context.Context, a *models.Article) error
	Get(ctx context.Context, id string) (*models.Article, error)
	Save(ctx context.Context, a *models.Article) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q, category string) ([]models.Article, error)
}

// Store bundles the repositories of one backend. WithTx runs fn against a
// transactional view; nothing fn wrote survives if it returns an error.
type Store interface {
	Users() UserRepository
	Tickets() TicketRepository
	Comments() CommentRepository
	Notifications() NotificationRepository
	Articles() ArticleRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
