package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helpdesk",
		Name:      "notifications_created_total",
		Help:      "Notifications created, by type.",
	}, []string{"type"})

	ticketTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "helpdesk",
		Name:      "ticket_transitions_total",
		Help:      "Ticket status transitions, by source and target status.",
	}, []string{"from", "to"})
)
