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

type CommentService struct {
	store    repository.Store
	notifier *NotificationService
	log      zerolog.Logger
	now      func() time.Time
}

func NewCommentService(store repository.Store, notifier *NotificationService, log zerolog.Logger) *CommentService {
	return &CommentService{store: store, notifier: notifier, log: log, now: time.Now}
}

// Add writes a comment and notifies the other side of the conversation: the owner when
// someone else comments, the assignee when the owner does.
func (s *CommentService) Add(ctx context.Context, actor Actor, ticketID, content string, public bool) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment content is required")
	}
	need := access.CommentPublic
	if !public {
		need = access.CommentInternal
	}
	if err := actor.require(need); err != nil {
		return nil, err
	}

	var out *models.Comment
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		t, err := load(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if !canView(actor, t) {
			return forbidden("ticket %s is not visible to this user", ticketID)
		}
		author, err := tx.Users().Get(ctx, actor.ID)
		if err != nil {
			return err
		}
		if author == nil {
			return notFound("user", actor.ID)
		}

		c := &models.Comment{
			ID:         uuid.NewString(),
			TicketID:   t.ID,
			AuthorID:   author.ID,
			AuthorName: author.Name,
			Content:    content,
			Public:     public,
			CreatedAt:  s.now().UTC(),
		}
		if err := tx.Comments().Create(ctx, c); err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}

		recipient := t.OwnerID
		if author.ID == t.OwnerID {
			recipient = ""
			if t.AssigneeID != nil && *t.AssigneeID != author.ID {
				recipient = *t.AssigneeID
			}
		}
		if recipient != "" {
			msg := fmt.Sprintf("%s comentou no chamado %s.", author.Name, ticketRef(t.ID))
			if _, err := s.notifier.WithStore(tx).Notify(ctx, recipient, models.NotificationCommentAdded,
				"Novo comentário no seu chamado", msg, &t.ID); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("ticket_id", ticketID).Str("comment_id", out.ID).Bool("public", public).Msg("comment added")
	return out, nil
}

// ListForTicket returns comments oldest first. Internal ones are hidden from users
// without comment.view.internal.
func (s *CommentService) ListForTicket(ctx context.Context, actor Actor, ticketID string) ([]models.Comment, error) {
	t, err := load(ctx, s.store, ticketID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, t) {
		return nil, forbidden("ticket %s is not visible to this user", ticketID)
	}
	all, err := s.store.Comments().ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if actor.Can(access.CommentViewInternal) {
		return all, nil
	}
	out := all[:0]
	for _, c := range all {
		if c.Public {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CommentService) Remove(ctx context.Context, actor Actor, ticketID, commentID string) error {
	if err := actor.require(access.CommentDelete); err != nil {
		return err
	}
	c, err := s.store.Comments().Get(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return notFound("comment", commentID)
	}
	if c.TicketID != ticketID {
		return invalid("comment %s does not belong to ticket %s", commentID, ticketID)
	}
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	s.log.Info().Str("ticket_id", ticketID).Str("comment_id", commentID).Str("actor_id", actor.ID).Msg("comment removed")
	return nil
}
