// Package access holds the role capability table. Server-side authorization and
// the client navigation both read from it.
package access

import (
	"sort"

	"helpdesk/internal/models"
)

type Action string

const (
	TicketCreate  Action = "ticket.create"
	TicketViewOwn Action = "ticket.view.own"
	TicketViewAll Action = "ticket.view.all"
	TicketUpdate  Action = "ticket.update"
	TicketAssign  Action = "ticket.assign"
	TicketDelete  Action = "ticket.delete"

	CommentPublic       Action = "comment.public"
	CommentInternal     Action = "comment.internal"
	CommentViewInternal Action = "comment.view.internal"
	CommentDelete       Action = "comment.delete"

	NotificationRead Action = "notification.read"

	UserManage Action = "user.manage"
	ReportView Action = "report.view"

	KnowledgeRead   Action = "kb.read"
	KnowledgeManage Action = "kb.manage"
)

var allActions = []Action{
	TicketCreate, TicketViewOwn, TicketViewAll, TicketUpdate, TicketAssign, TicketDelete,
	CommentPublic, CommentInternal, CommentViewInternal, CommentDelete,
	NotificationRead, UserManage, ReportView, KnowledgeRead, KnowledgeManage,
}

var capabilityMatrix = map[models.Role]map[Action]struct{}{
	models.RoleCollaborator: set(
		TicketCreate, TicketViewOwn,
		CommentPublic,
		NotificationRead,
		KnowledgeRead,
	),
	// technicians are kept out of the knowledge base
	models.RoleTechnician: set(
		TicketViewOwn, TicketViewAll, TicketUpdate, TicketAssign,
		CommentPublic, CommentInternal, CommentViewInternal,
		NotificationRead,
	),
	models.RoleAdministrator: set(allActions...),
}

func set(actions ...Action) map[Action]struct{} {
	m := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		m[a] = struct{}{}
	}
	return m
}

// CanPerform reports whether role holds the capability for action.
func CanPerform(role models.Role, action Action) bool {
	caps, ok := capabilityMatrix[role]
	if !ok || action == "" {
		return false
	}
	_, ok = caps[action]
	return ok
}

// Capabilities returns the sorted action list for role.
func Capabilities(role models.Role) []Action {
	out := make([]Action, 0, len(capabilityMatrix[role]))
	for a := range capabilityMatrix[role] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Matrix returns the full table keyed by role label.
func Matrix() map[string][]Action {
	out := make(map[string][]Action, len(capabilityMatrix))
	for r := range capabilityMatrix {
		out[r.String()] = Capabilities(r)
	}
	return out
}
