package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"helpdesk/internal/models"
)

type NotificationRepo struct{ db dbtx }

const notificationColumns = `id, recipient_id, type, title, message, ticket_id, read, created_at`

func scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	var typ string
	if err := row.Scan(&n.ID, &n.RecipientID, &typ, &n.Title, &n.Message, &n.TicketID, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = models.NotificationType(typ)
	return &n, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, type, title, message, ticket_id, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		n.ID, n.RecipientID, string(n.Type), n.Title, n.Message, n.TicketID, n.Read, n.CreatedAt)
	return err
}

func (r *NotificationRepo) Get(ctx context.Context, id string) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// Save is a keyed update; the row never leaves the table.
func (r *NotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	return affected(r.db.Exec(ctx, `
		UPDATE notifications
		SET type=$1, title=$2, message=$3, ticket_id=$4, read=$5
		WHERE id=$6`,
		string(n.Type), n.Title, n.Message, n.TicketID, n.Read, n.ID))
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY created_at DESC, seq DESC
	`, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	ct, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE recipient_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}
