package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProtectedRouter wires the gate and the org access policy in front of a
// trivial handler, mirroring the production route layout.
func newProtectedRouter(t *testing.T, codec *Codec) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireToken(codec))
		r.Use(orgPolicy().Middleware)
		r.Get("/employees", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/employees", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})
	return r
}

func issueFor(t *testing.T, codec *Codec, subject string, roles RoleSet) string {
	t.Helper()
	token, _, err := codec.Issue(&Identity{Subject: subject, Roles: roles})
	require.NoError(t, err)
	return token
}

func TestGate_MissingToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	router := newProtectedRouter(t, codec)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_MalformedHeader(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	router := newProtectedRouter(t, codec)

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestGate_InvalidAndExpiredTokens(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	router := newProtectedRouter(t, codec)

	// Structurally invalid token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token issued in the past, beyond its lifetime.
	issuedAt := time.Now().Add(-2 * time.Hour)
	codec.now = func() time.Time { return issuedAt }
	expired := issueFor(t, codec, "regularuser", NewRoleSet(RoleUser))
	codec.now = time.Now

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_UserRoleAllowedOnAnyOfRoute(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	router := newProtectedRouter(t, codec)
	token := issueFor(t, codec, "regularuser", NewRoleSet(RoleUser))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_UserRoleForbiddenOnAdminRoute(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	router := newProtectedRouter(t, codec)
	token := issueFor(t, codec, "regularuser", NewRoleSet(RoleUser))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Known caller, missing role: 403, not 401.
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGate_AdminAllowedOnAdminRoute(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	router := newProtectedRouter(t, codec)
	token := issueFor(t, codec, "adminuser", NewRoleSet(RoleAdmin, RoleUser))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGate_IdentityScopedPerRequest(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	var seen []*Identity
	r := chi.NewRouter()
	r.Use(RequireToken(codec))
	r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
		identity, ok := IdentityFromContext(req.Context())
		require.True(t, ok)
		seen = append(seen, identity)
		w.WriteHeader(http.StatusOK)
	})

	for _, subject := range []string{"adminuser", "regularuser"} {
		token := issueFor(t, codec, subject, NewRoleSet(RoleUser))
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, seen, 2)
	assert.Equal(t, "adminuser", seen[0].Subject)
	assert.Equal(t, "regularuser", seen[1].Subject)
	// Each request got its own identity value, no cross-request sharing.
	assert.NotSame(t, seen[0], seen[1])
}
