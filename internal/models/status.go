package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Status string

const (
	StatusOpen        Status = "open"
	StatusInAnalysis  Status = "in_analysis"
	StatusWaitingInfo Status = "waiting_info"
	StatusInProgress  Status = "in_progress"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
)

var Statuses = []Status{
	StatusOpen, StatusInAnalysis, StatusWaitingInfo, StatusInProgress, StatusResolved, StatusClosed,
}

// transitions is the directed status graph. Anything not listed is rejected.
var transitions = map[Status][]Status{
	StatusOpen:        {StatusInAnalysis, StatusInProgress, StatusClosed},
	StatusInAnalysis:  {StatusWaitingInfo, StatusInProgress, StatusClosed},
	StatusWaitingInfo: {StatusInAnalysis, StatusInProgress},
	StatusInProgress:  {StatusResolved, StatusWaitingInfo, StatusClosed},
	StatusResolved:    {StatusClosed, StatusInProgress},
	StatusClosed:      {StatusInProgress},
}

var statusLabels = map[Status]string{
	StatusOpen:        "Aberto",
	StatusInAnalysis:  "Em análise",
	StatusWaitingInfo: "Aguardando informação",
	StatusInProgress:  "Em andamento",
	StatusResolved:    "Resolvido",
	StatusClosed:      "Fechado",
}

// Label is the display name shown to users.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// CanTransition reports whether a ticket may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s in one step.
func NextStatuses(s Status) []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal is true for Resolved and Closed, the states that carry a closedAt.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// ParseStatus accepts snake_case ("in_progress") and CamelCase ("InProgress").
func ParseStatus(v string) (Status, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), "_", ""))
	for _, s := range Statuses {
		if strings.ReplaceAll(string(s), "_", "") == key {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", v)
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
