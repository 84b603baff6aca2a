package models

import "time"

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3

	DefaultCategory = "hardware"
)

// slaHours is the response deadline per priority, lowest to highest.
var slaHours = [...]int{72, 48, 24, 8, 4}

// SLAHours returns the SLA window for a priority; out-of-range values use the default.
func SLAHours(priority int) int {
	if priority < MinPriority || priority > MaxPriority {
		priority = DefaultPriority
	}
	return slaHours[priority-1]
}

type Ticket struct {
	ID           string     `json:"id"`
	Title        string     `json:"titulo"`
	Description  string     `json:"descricao"`
	OwnerID      string     `json:"usuarioId"`
	AssigneeID   *string    `json:"tecnicoId,omitempty"`
	Status       Status     `json:"status"`
	Priority     int        `json:"prioridade"`
	Category     string     `json:"categoria"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	AISuggestion string     `json:"sugestaoIA,omitempty"`
}

// SLADueAt is the creation time plus the SLA window of the ticket's priority.
func (t Ticket) SLADueAt() time.Time {
	return t.CreatedAt.Add(time.Duration(SLAHours(t.Priority)) * time.Hour)
}

func (t Ticket) AssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// Comment is immutable once written; only deletion is allowed.
type Comment struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"chamadoId"`
	AuthorID   string    `json:"usuarioId"`
	AuthorName string    `json:"nomeAutor"`
	Content    string    `json:"conteudo"`
	Public     bool      `json:"publico"`
	CreatedAt  time.Time `json:"createdAt"`
}
