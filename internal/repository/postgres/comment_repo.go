package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"helpdesk/internal/models"
)

type CommentRepo struct{ db dbtx }

const commentColumns = `id, ticket_id, author_id, author_name, content, public, created_at`

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.AuthorName, &c.Content, &c.Public, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, ticket_id, author_id, author_name, content, public, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.TicketID, c.AuthorID, c.AuthorName, c.Content, c.Public, c.CreatedAt)
	return err
}

func (r *CommentRepo) Get(ctx context.Context, id string) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE ticket_id = $1
		ORDER BY created_at ASC, seq ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	return err
}
