package utils

import (
	"context"

	"helpdesk/internal/models"
)

type ctxKey struct{}

// Session is the authenticated caller attached to a request context.
type Session struct {
	UserID string
	Role   models.Role
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the caller, or false for anonymous requests.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.UserID != ""
}
