package models

import "time"

type NotificationType string

const (
	NotificationCommentAdded   NotificationType = "comment_added"
	NotificationStatusChanged  NotificationType = "status_changed"
	NotificationTicketAssigned NotificationType = "ticket_assigned"
	NotificationTicketResolved NotificationType = "ticket_resolved"
	NotificationTicketReopened NotificationType = "ticket_reopened"
)

type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"usuarioId"`
	Type        NotificationType `json:"tipo"`
	Title       string           `json:"titulo"`
	Message     string           `json:"mensagem"`
	TicketID    *string          `json:"chamadoId,omitempty"`
	Read        bool             `json:"lida"`
	CreatedAt   time.Time        `json:"createdAt"`
}
