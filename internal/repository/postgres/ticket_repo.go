package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type TicketRepo struct{ db dbtx }

const ticketColumns = `t.id, t.title, t.description, t.owner_id, t.assignee_id, t.status, t.priority,
	t.category, t.created_at, t.updated_at, t.closed_at, t.ai_suggestion`

func scanTicket(row rowScanner) (*models.Ticket, error) {
	var t models.Ticket
	var status string
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.OwnerID, &t.AssigneeID, &status, &t.Priority,
		&t.Category, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt, &t.AISuggestion,
	); err != nil {
		return nil, err
	}
	t.Status = models.Status(status)
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tickets (id, title, description, owner_id, assignee_id, status, priority, category,
			created_at, updated_at, closed_at, ai_suggestion)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		t.ID, t.Title, t.Description, t.OwnerID, t.AssigneeID, string(t.Status), t.Priority, t.Category,
		t.CreatedAt, t.UpdatedAt, t.ClosedAt, t.AISuggestion,
	)
	return err
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets t WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// Save replaces every mutable column of the ticket.
func (r *TicketRepo) Save(ctx context.Context, t *models.Ticket) error {
	return affected(r.db.Exec(ctx, `
		UPDATE tickets SET
			title=$1, description=$2, assignee_id=$3, status=$4, priority=$5, category=$6,
			updated_at=$7, closed_at=$8, ai_suggestion=$9
		WHERE id=$10
	`,
		t.Title, t.Description, t.AssigneeID, string(t.Status), t.Priority, t.Category,
		t.UpdatedAt, t.ClosedAt, t.AISuggestion, t.ID,
	))
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	return err
}

// List returns a page of tickets matching f, newest first.
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, error) {
	limit, offset := repository.Page(f.Limit, f.Offset)
	whereSQL, args := buildTicketWhere(f)

	sql := fmt.Sprintf(`
		SELECT %s
		FROM tickets t
		%s
		ORDER BY t.created_at DESC, t.seq DESC
		LIMIT $%d OFFSET $%d
	`, ticketColumns, whereSQL, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Count returns the number of tickets for the same filter set (for pagination).
func (r *TicketRepo) Count(ctx context.Context, f repository.TicketFilter) (int, error) {
	whereSQL, args := buildTicketWhere(f)
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t `+whereSQL, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// buildTicketWhere composes WHERE clause and args for the filter (with aliases).
func buildTicketWhere(f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	// free-text search, case and accent insensitive
	if s := strings.TrimSpace(f.Q); s != "" {
		args = append(args, foldedLike(s))
		n := itoa(len(args))
		clauses = append(clauses, "(helpdesk_fold(t.title) LIKE $"+n+" OR helpdesk_fold(t.description) LIKE $"+n+")")
	}

	// exact filters
	if s := strings.TrimSpace(f.OwnerID); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.owner_id = $"+itoa(len(args)))
	}
	if s := strings.TrimSpace(f.AssigneeID); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.assignee_id = $"+itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.status = $"+itoa(len(args)))
	}
	if f.Priority != 0 {
		args = append(args, f.Priority)
		clauses = append(clauses, "t.priority = $"+itoa(len(args)))
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		args = append(args, c)
		clauses = append(clauses, "lower(t.category) = lower($"+itoa(len(args))+")")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
