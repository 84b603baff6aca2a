package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"helpdesk/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)

	_, ok = SessionFrom(WithSession(context.Background(), Session{Role: models.RoleAdministrator}))
	assert.False(t, ok, "a session needs a user id")

	s, ok := SessionFrom(WithSession(context.Background(), Session{UserID: "u1", Role: models.RoleTechnician}))
	assert.True(t, ok)
	assert.Equal(t, Session{UserID: "u1", Role: models.RoleTechnician}, s)
}
