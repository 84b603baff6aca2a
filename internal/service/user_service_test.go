package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/access"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

func TestCreateUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, e.admin, NewUser{Name: "Nova", Login: "nova", Password: "secret1", Role: models.RoleTechnician})
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.Equal(t, models.RoleTechnician, u.Role)

	_, err = e.users.Create(ctx, e.admin, NewUser{Name: "Dup", Login: "NOVA", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = e.users.Create(ctx, e.admin, NewUser{Name: "Short", Login: "short", Password: "12345"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.users.Create(ctx, e.tech, NewUser{Name: "X", Login: "x", Password: "secret1"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAndDeactivateUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	role := models.RoleTechnician
	name := "Carlos Técnico"
	u, err := e.users.Update(ctx, e.admin, e.colab.ID, UserPatch{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTechnician, u.Role)
	assert.Equal(t, name, u.Name)

	_, err = e.users.Deactivate(ctx, e.admin, e.admin.ID)
	assert.ErrorIs(t, err, ErrValidation)

	u, err = e.users.Deactivate(ctx, e.admin, e.colab.ID)
	require.NoError(t, err)
	assert.False(t, u.Active)

	_, _, err = e.auth.Login(ctx, "colab", "colab123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "deactivated users cannot sign in")

	inactive := false
	list, total, err := e.users.List(ctx, e.admin, repository.UserFilter{Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, e.colab.ID, list[0].ID)
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	tok, u, err := e.auth.Login(ctx, "ADMIN", "admin123")
	require.NoError(t, err)
	assert.Equal(t, e.admin.ID, u.ID)

	claims, err := utils.ParseJWT("test-secret", tok)
	require.NoError(t, err)
	assert.Equal(t, e.admin.ID, claims.UserID)
	assert.Equal(t, "Administrador", claims.Role)

	_, _, err = e.auth.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = e.auth.Login(ctx, "ghost", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, e.users.ResetPassword(ctx, e.colab, e.colab.ID, "newpass1"))
	_, _, err := e.auth.Login(ctx, "colab", "newpass1")
	assert.NoError(t, err)

	assert.ErrorIs(t, e.users.ResetPassword(ctx, e.colab, e.colab2.ID, "newpass1"), ErrForbidden)
	assert.ErrorIs(t, e.users.ResetPassword(ctx, e.admin, e.colab2.ID, "x"), ErrValidation)
}

func TestMeListsCapabilitiesAndNavigation(t *testing.T) {
	e := newTestEnv(t)
	p, err := e.auth.Me(context.Background(), e.tech)
	require.NoError(t, err)

	assert.Equal(t, "/technician-dashboard", p.Home)
	assert.Contains(t, p.Capabilities, access.CommentInternal)
	assert.NotContains(t, p.Capabilities, access.KnowledgeRead)
	for _, item := range p.Navigation {
		assert.True(t, access.CanPerform(models.RoleTechnician, item.Action), item.Path)
	}
}

func TestSeedDemoIsRepeatable(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.svc.SeedDemo(ctx))
	require.NoError(t, e.svc.SeedDemo(ctx))

	n, err := e.store.Tickets().Count(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	arts, err := e.store.Articles().List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, arts, len(demoArticles))

	_, _, err = e.auth.Login(ctx, "tecnico", "tecnico123")
	assert.NoError(t, err)
}
