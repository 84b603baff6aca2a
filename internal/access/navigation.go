package access

import "helpdesk/internal/models"

type NavItem struct {
	Label  string `json:"rotulo"`
	Path   string `json:"caminho"`
	Action Action `json:"acao"`
}

var navigation = []NavItem{
	{Label: "Novo chamado", Path: "/new-ticket", Action: TicketCreate},
	{Label: "Meus chamados", Path: "/my-tickets", Action: TicketCreate},
	{Label: "Fila técnica", Path: "/technician/open", Action: TicketAssign},
	{Label: "Chamados atribuídos", Path: "/technician/assigned", Action: CommentInternal},
	{Label: "SLA hoje", Path: "/technician/sla-today", Action: TicketUpdate},
	{Label: "Todos os chamados", Path: "/all-tickets", Action: TicketViewAll},
	{Label: "Base de conhecimento", Path: "/knowledge-base", Action: KnowledgeRead},
	{Label: "Usuários", Path: "/users", Action: UserManage},
	{Label: "Relatórios", Path: "/reports", Action: ReportView},
}

// HomePath is the landing route for a role.
func HomePath(role models.Role) string {
	switch role {
	case models.RoleAdministrator:
		return "/admin-dashboard"
	case models.RoleTechnician:
		return "/technician-dashboard"
	default:
		return "/dashboard"
	}
}

// Navigation returns the menu entries whose guarding action the role holds.
func Navigation(role models.Role) []NavItem {
	out := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if CanPerform(role, item.Action) {
			out = append(out, item)
		}
	}
	return out
}
