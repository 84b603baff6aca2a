package service

import (
	"errors"
	"fmt"

	"helpdesk/internal/models"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TransitionError reports a status change outside the allowed table.
type TransitionError struct {
	From, To models.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move ticket from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrForbidden}, args...)...)
}

// IsClientError reports whether err belongs to the domain taxonomy rather than an internal fault.
func IsClientError(err error) bool {
	for _, target := range []error{ErrValidation, ErrNotFound, ErrInvalidTransition, ErrForbidden, ErrConflict, ErrInvalidCredentials} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
