package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"helpdesk/internal/models"
)

func TestCanPerformMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		role    models.Role
		action  Action
		allowed bool
	}{
		{"collaborator creates tickets", models.RoleCollaborator, TicketCreate, true},
		{"collaborator comments publicly", models.RoleCollaborator, CommentPublic, true},
		{"collaborator cannot comment internally", models.RoleCollaborator, CommentInternal, false},
		{"collaborator cannot view all", models.RoleCollaborator, TicketViewAll, false},
		{"collaborator cannot change status", models.RoleCollaborator, TicketUpdate, false},
		{"collaborator reads kb", models.RoleCollaborator, KnowledgeRead, true},
		{"technician updates tickets", models.RoleTechnician, TicketUpdate, true},
		{"technician comments internally", models.RoleTechnician, CommentInternal, true},
		{"technician cannot manage users", models.RoleTechnician, UserManage, false},
		{"technician cannot read kb", models.RoleTechnician, KnowledgeRead, false},
		{"technician cannot delete tickets", models.RoleTechnician, TicketDelete, false},
		{"admin manages users", models.RoleAdministrator, UserManage, true},
		{"admin views reports", models.RoleAdministrator, ReportView, true},
		{"admin views all", models.RoleAdministrator, TicketViewAll, true},
		{"unknown role denied", models.RoleUnknown, TicketViewOwn, false},
		{"empty action denied", models.RoleAdministrator, "", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.allowed, CanPerform(tc.role, tc.action))
		})
	}
}

func TestAdministratorHoldsEveryAction(t *testing.T) {
	assert.Len(t, Capabilities(models.RoleAdministrator), len(allActions))
}

func TestNavigationFollowsCapabilities(t *testing.T) {
	for _, role := range []models.Role{models.RoleCollaborator, models.RoleTechnician, models.RoleAdministrator} {
		for _, item := range Navigation(role) {
			assert.True(t, CanPerform(role, item.Action), "%s sees %s", role, item.Path)
		}
	}

	paths := func(items []NavItem) []string {
		var out []string
		for _, i := range items {
			out = append(out, i.Path)
		}
		return out
	}
	assert.Contains(t, paths(Navigation(models.RoleCollaborator)), "/knowledge-base")
	assert.NotContains(t, paths(Navigation(models.RoleTechnician)), "/knowledge-base")
	assert.Contains(t, paths(Navigation(models.RoleAdministrator)), "/users")
	assert.Equal(t, "/technician-dashboard", HomePath(models.RoleTechnician))
}
