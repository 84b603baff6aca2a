package service

import (
	"helpdesk/internal/access"
	"helpdesk/internal/models"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) Can(action access.Action) bool { return access.CanPerform(a.Role, action) }

func (a Actor) require(action access.Action) error {
	if !a.Can(action) {
		return forbidden("%s may not %s", a.Role, action)
	}
	return nil
}

func (a Actor) isAdmin() bool { return a.Role == models.RoleAdministrator }
