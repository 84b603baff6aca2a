package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	db   dbtx
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool, db: pool} }

func (s *Store) Users() repository.UserRepository       { return &UserRepo{db: s.db} }
func (s *Store) Tickets() repository.TicketRepository   { return &TicketRepo{db: s.db} }
func (s *Store) Comments() repository.CommentRepository { return &CommentRepo{db: s.db} }
func (s *Store) Notifications() repository.NotificationRepository {
	return &NotificationRepo{db: s.db}
}
func (s *Store) Articles() repository.ArticleRepository { return &ArticleRepo{db: s.db} }

// WithTx runs fn inside a database transaction. Nested calls join the outer one.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&Store{pool: s.pool, db: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func affected(ct pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNoRows
	}
	return nil
}

// Ping checks the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// foldedLike is the LIKE pattern for q after the same folding helpdesk_fold applies
// in SQL.
func foldedLike(q string) string {
	return "%" + models.Fold(q) + "%"
}

// small helper to avoid fmt for placeholder numbering.
func itoa(i int) string { return strconv.Itoa(i) }
