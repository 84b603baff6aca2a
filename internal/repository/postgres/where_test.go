package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"helpdesk/internal/repository"
)

func TestBuildTicketWhere(t *testing.T) {
	cases := []struct {
		name   string
		filter repository.TicketFilter
		sql    string
		args   []any
	}{
		{"empty", repository.TicketFilter{}, "WHERE 1=1", []any{}},
		{
			"folded text search",
			repository.TicketFilter{Q: "  Impressão "},
			"WHERE 1=1 AND (helpdesk_fold(t.title) LIKE $1 OR helpdesk_fold(t.description) LIKE $1)",
			[]any{"%impressao%"},
		},
		{
			"exact filters number their placeholders",
			repository.TicketFilter{OwnerID: "u1", Status: "open", Priority: 4, Category: "Rede"},
			"WHERE 1=1 AND t.owner_id = $1 AND t.status = $2 AND t.priority = $3 AND lower(t.category) = lower($4)",
			[]any{"u1", "open", 4, "Rede"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := buildTicketWhere(tc.filter)
			assert.Equal(t, tc.sql, sql)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestFoldedLike(t *testing.T) {
	assert.Equal(t, "%tecnico%", foldedLike("TÉCNICO"))
	assert.Equal(t, "%conexao lenta%", foldedLike(" Conexão Lenta "))
}
