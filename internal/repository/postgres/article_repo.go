package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"helpdesk/internal/models"
)

type ArticleRepo struct{ db dbtx }

const articleColumns = `id, title, summary, content, category, tags, keywords, author_id, author_name, created_at, updated_at`

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	if err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.Content, &a.Category, &a.Tags, &a.Keywords,
		&a.AuthorID, &a.AuthorName, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepo) Create(ctx context.Context, a *models.Article) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO articles (id, title, summary, content, category, tags, keywords, author_id, author_name, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.Title, a.Summary, a.Content, a.Category, a.Tags, a.Keywords, a.AuthorID, a.AuthorName, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *ArticleRepo) Get(ctx context.Context, id string) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *ArticleRepo) Save(ctx context.Context, a *models.Article) error {
	return affected(r.db.Exec(ctx, `
		UPDATE articles
		SET title=$1, summary=$2, content=$3, category=$4, tags=$5, keywords=$6, updated_at=$7
		WHERE id=$8`,
		a.Title, a.Summary, a.Content, a.Category, a.Tags, a.Keywords, a.UpdatedAt, a.ID))
}

func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	return err
}

func (r *ArticleRepo) List(ctx context.Context, q, category string) ([]models.Article, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if s := strings.TrimSpace(q); s != "" {
		args = append(args, foldedLike(s))
		n := itoa(len(args))
		clauses = append(clauses, "(helpdesk_fold(title) LIKE $"+n+" OR helpdesk_fold(summary) LIKE $"+n+" OR helpdesk_fold(array_to_string(tags, ' ')) LIKE $"+n+")")
	}
	if c := strings.TrimSpace(category); c != "" {
		args = append(args, c)
		clauses = append(clauses, "lower(category) = lower($"+itoa(len(args))+")")
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE `+strings.Join(clauses, " AND ")+`
		ORDER BY updated_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
