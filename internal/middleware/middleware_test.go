package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/access"
	"helpdesk/internal/config"
	"helpdesk/internal/models"
	"helpdesk/internal/repository/memory"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

var testCfg = config.Config{Env: "test", SessionSecret: "mw-secret", SessionTTL: time.Hour}

func withUser(r *http.Request, id string, role models.Role) *http.Request {
	return r.WithContext(utils.WithSession(r.Context(), utils.Session{UserID: id, Role: role}))
}

func TestWithAuthResolvesActiveUsers(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u1", Login: "ana", Role: models.RoleTechnician, Active: true}, "h"))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u2", Login: "bia", Role: models.RoleAdministrator, Active: false}, "h"))

	var seen service.Actor
	h := WithAuth(zerolog.Nop(), testCfg, store.Users())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ActorFrom(r)
	}))

	// the token's role claim is ignored in favour of the stored role
	tok, err := utils.SignJWT(testCfg.SessionSecret, "u1", models.RoleAdministrator.String(), time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, service.Actor{ID: "u1", Role: models.RoleTechnician}, seen)

	seen = service.Actor{}
	tok, err = utils.SignJWT(testCfg.SessionSecret, "u2", models.RoleAdministrator.String(), time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, seen.ID, "inactive accounts get no actor")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

	seen = service.Actor{}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, seen.ID)
}

func TestRequireAuthAndCapability(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	RequireAuth(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	gate := RequireCapability(access.ReportView)(ok)

	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), "t1", models.RoleTechnician))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), "a1", models.RoleAdministrator))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireSelfOr(t *testing.T) {
	r := chi.NewRouter()
	r.With(RequireSelfOr(access.UserManage)).Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name string
		uid  string
		role models.Role
		path string
		want int
	}{
		{"self", "c1", models.RoleCollaborator, "/users/c1", http.StatusNoContent},
		{"other user", "c1", models.RoleCollaborator, "/users/c2", http.StatusForbidden},
		{"admin", "a1", models.RoleAdministrator, "/users/c2", http.StatusNoContent},
		{"anonymous", "", models.RoleUnknown, "/users/c1", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, tc.path, nil), tc.uid, tc.role))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRecovererAnswersJSON(t *testing.T) {
	h := chimw.RequestID(Recoverer(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
	assert.NotEmpty(t, body["requestId"])
}
