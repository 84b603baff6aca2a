package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type NotificationService struct {
	store repository.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewNotificationService(store repository.Store, log zerolog.Logger) *NotificationService {
	return &NotificationService{store: store, log: log, now: time.Now}
}

// WithStore returns a copy bound to tx, so callers can fan out inside their transaction.
func (s *NotificationService) WithStore(tx repository.Store) *NotificationService {
	c := *s
	c.store = tx
	return &c
}

// Notify creates an unread notification for recipientID.
func (s *NotificationService) Notify(ctx context.Context, recipientID string, typ models.NotificationType, title, message string, ticketID *string) (*models.Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, invalid("notification title is required")
	}
	u, err := s.store.Users().Get(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", recipientID)
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		TicketID:    ticketID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return nil, err
	}
	notificationsCreated.WithLabelValues(string(typ)).Inc()
	s.log.Debug().
		Str("notification_id", n.ID).
		Str("recipient_id", recipientID).
		Str("type", string(typ)).
		Msg("notification created")
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, actor Actor) ([]models.Notification, error) {
	if err := actor.require(access.NotificationRead); err != nil {
		return nil, err
	}
	return s.store.Notifications().ListByRecipient(ctx, actor.ID, false)
}

func (s *NotificationService) ListUnread(ctx context.Context, actor Actor) ([]models.Notification, error) {
	if err := actor.require(access.NotificationRead); err != nil {
		return nil, err
	}
	return s.store.Notifications().ListByRecipient(ctx, actor.ID, true)
}

// ListFor lists another user's notifications; only that user or an administrator may.
func (s *NotificationService) ListFor(ctx context.Context, actor Actor, userID string) ([]models.Notification, error) {
	if actor.ID != userID {
		if err := actor.require(access.UserManage); err != nil {
			return nil, err
		}
	}
	return s.store.Notifications().ListByRecipient(ctx, userID, false)
}

// MarkRead flags one notification as read. Marking an already-read one is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) (*models.Notification, error) {
	n, err := s.store.Notifications().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, notFound("notification", id)
	}
	if n.RecipientID != actor.ID && !actor.isAdmin() {
		return nil, forbidden("notification belongs to another user")
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.store.Notifications().Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int, error) {
	if err := actor.require(access.NotificationRead); err != nil {
		return 0, err
	}
	var changed int
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		n, err := tx.Notifications().MarkAllRead(ctx, actor.ID)
		changed = n
		return err
	})
	return changed, err
}

// ticketRef is the short form used in notification text.
func ticketRef(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "#" + id
}
