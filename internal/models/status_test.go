package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionMatchesTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusOpen, StatusInAnalysis}:        true,
		{StatusOpen, StatusInProgress}:        true,
		{StatusOpen, StatusClosed}:            true,
		{StatusInAnalysis, StatusWaitingInfo}: true,
		{StatusInAnalysis, StatusInProgress}:  true,
		{StatusInAnalysis, StatusClosed}:      true,
		{StatusWaitingInfo, StatusInAnalysis}: true,
		{StatusWaitingInfo, StatusInProgress}: true,
		{StatusInProgress, StatusResolved}:    true,
		{StatusInProgress, StatusWaitingInfo}: true,
		{StatusInProgress, StatusClosed}:      true,
		{StatusResolved, StatusClosed}:        true,
		{StatusResolved, StatusInProgress}:    true,
		{StatusClosed, StatusInProgress}:      true,
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"in_progress":  StatusInProgress,
		"InProgress":   StatusInProgress,
		"WAITING_INFO": StatusWaitingInfo,
		"resolved":     StatusResolved,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("pending")
	assert.Error(t, err)
}

func TestSLADueAt(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tk := Ticket{CreatedAt: created, Priority: 5}
	assert.Equal(t, created.Add(4*time.Hour), tk.SLADueAt())

	tk.Priority = 0
	assert.Equal(t, created.Add(24*time.Hour), tk.SLADueAt())
}
