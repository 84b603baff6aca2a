package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role is the access level (nível de acesso) of a user.
// On the wire a role is always its label string; see MarshalJSON.
type Role int

const (
	RoleUnknown Role = iota
	RoleCollaborator
	RoleTechnician
	RoleAdministrator
)

var roleLabels = map[Role]string{
	RoleCollaborator:  "Colaborador",
	RoleTechnician:    "Técnico",
	RoleAdministrator: "Administrador",
}

// numeric codes used by older clients
var roleCodes = map[int]Role{
	1: RoleAdministrator,
	2: RoleTechnician,
	3: RoleCollaborator,
}

func (r Role) String() string {
	if s, ok := roleLabels[r]; ok {
		return s
	}
	return "Desconhecido"
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Fold lowercases s and strips diacritics ("Técnico" -> "tecnico").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ParseRole maps a role label or numeric code to a Role. Matching ignores case and
// diacritics and accepts both the Portuguese and English labels.
func ParseRole(s string) (Role, error) {
	f := Fold(s)
	switch {
	case f == "":
		return RoleUnknown, fmt.Errorf("empty role")
	case strings.HasPrefix(f, "admin"):
		return RoleAdministrator, nil
	case f == "tecnico" || f == "technician":
		return RoleTechnician, nil
	case f == "colaborador" || f == "collaborator":
		return RoleCollaborator, nil
	}
	if n, err := strconv.Atoi(f); err == nil {
		if r, ok := roleCodes[n]; ok {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// RoleFromClient is the lenient mapping used for client payloads: anything
// unrecognised becomes a collaborator.
func RoleFromClient(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return RoleCollaborator
	}
	return r
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts a label string or a numeric code.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int
		if err2 := json.Unmarshal(b, &n); err2 != nil {
			return fmt.Errorf("role must be a string or number: %w", err)
		}
		s = strconv.Itoa(n)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
