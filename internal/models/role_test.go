package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"técnico", RoleTechnician},
		{"Tecnico", RoleTechnician},
		{"TECHNICIAN", RoleTechnician},
		{"Técnico", RoleTechnician},
		{"2", RoleTechnician},
		{"Administrador", RoleAdministrator},
		{"admin", RoleAdministrator},
		{"ADMINISTRATOR", RoleAdministrator},
		{"1", RoleAdministrator},
		{"colaborador", RoleCollaborator},
		{" Collaborator ", RoleCollaborator},
		{"3", RoleCollaborator},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRole(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "guest", "4", "0"} {
		_, err := ParseRole(in)
		assert.Error(t, err, in)
	}
	assert.Equal(t, RoleCollaborator, RoleFromClient("guest"))
}

func TestParseRoleIsIdempotent(t *testing.T) {
	for _, r := range []Role{RoleCollaborator, RoleTechnician, RoleAdministrator} {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestRoleJSONAcceptsNumericCode(t *testing.T) {
	var u struct {
		Role Role `json:"nivelAcesso"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"nivelAcesso":2}`), &u))
	assert.Equal(t, RoleTechnician, u.Role)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nivelAcesso":"Técnico"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"nivelAcesso":9}`), &u))
}
