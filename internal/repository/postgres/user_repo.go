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

type UserRepo struct{ db dbtx }

const userColumns = `id, name, login, role, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*models.User, error) {
	var u models.User
	var role string
	dest := append([]any{&u.ID, &u.Name, &u.Login, &role, &u.Active, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	u.Role = models.RoleFromClient(role)
	return &u, nil
}

// Create stores the user with its bcrypt hash in password_h.
func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, login, role, active, password_h, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Name, u.Login, u.Role.String(), u.Active, passwordHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepo) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*models.User, string, error) {
	var ph string
	u, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`, password_h
		FROM users WHERE lower(login)=lower($1)`, strings.TrimSpace(login)), &ph)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return u, ph, nil
}

func (r *UserRepo) Save(ctx context.Context, u *models.User) error {
	err := affected(r.db.Exec(ctx, `
		UPDATE users
		SET name=$1, login=$2, role=$3, active=$4, updated_at=$5
		WHERE id=$6`,
		u.Name, u.Login, u.Role.String(), u.Active, u.UpdatedAt, u.ID))
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	return affected(r.db.Exec(ctx, `
		UPDATE users
		SET password_h=$1, updated_at=now()
		WHERE id=$2
	`, passwordHash, id))
}

// List returns a filtered, paginated list of users and total count.
// Filters: q (matches login or name, folded), role (label), active (*bool).
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error) {
	limit, offset := repository.Page(f.Limit, f.Offset)

	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Q); s != "" {
		args = append(args, foldedLike(s))
		n := itoa(len(args))
		clauses = append(clauses, "(helpdesk_fold(login) LIKE $"+n+" OR helpdesk_fold(name) LIKE $"+n+")")
	}
	if s := strings.TrimSpace(f.Role); s != "" {
		args = append(args, models.RoleFromClient(s).String())
		clauses = append(clauses, "role = $"+itoa(len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		clauses = append(clauses, "active = $"+itoa(len(args)))
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM users WHERE ` + strings.Join(clauses, " AND ")
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	listSQL := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, strings.Join(clauses, " AND "), len(args)-1, len(args))
	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}
