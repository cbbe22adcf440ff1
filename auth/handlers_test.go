package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/empman-go/config"
)

func newAuthRouter(t *testing.T) (http.Handler, *Codec, *memoryUserStore) {
	t.Helper()

	codec, err := NewCodec(config.AuthConfig{JWTSecret: testSecret, TokenDuration: time.Hour})
	require.NoError(t, err)

	store := newMemoryUserStore()
	handlers := NewHandlers(NewService(store, codec))

	r := chi.NewRouter()
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", handlers.HandleLogin())
		r.Post("/register", handlers.HandleRegister())
	})
	return r, codec, store
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogin_AdminGetsTokenWithBothRoles(t *testing.T) {
	router, codec, store := newAuthRouter(t)
	store.mustAdd(t, "adminuser", "password123", NewRoleSet(RoleAdmin, RoleUser))

	rec := postJSON(t, router, "/api/v1/auth/login", LoginRequest{
		Username: "adminuser",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)

	claims, err := codec.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "adminuser", claims.Subject)
	assert.True(t, claims.Identity().Roles.Equal(NewRoleSet(RoleAdmin, RoleUser)))
}

func TestHandleLogin_BadCredentialsIsUnauthorized(t *testing.T) {
	router, _, store := newAuthRouter(t)
	store.mustAdd(t, "adminuser", "password123", NewRoleSet(RoleAdmin, RoleUser))

	rec := postJSON(t, router, "/api/v1/auth/login", LoginRequest{
		Username: "adminuser",
		Password: "wrong",
	})
	// Invalid credentials must never surface as a server error.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, router, "/api/v1/auth/login", LoginRequest{
		Username: "ghost",
		Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleRegister_CreatesUser(t *testing.T) {
	router, _, store := newAuthRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
		Username: "newuser",
		Password: "strongpassword123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := rec.Body.String()
	var created User
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "newuser", created.Username)
	assert.True(t, created.Roles.Equal(NewRoleSet(RoleUser)))
	// The hashed password never appears in the response body.
	assert.NotContains(t, body, "password")

	saved, err := store.FindByUsername(context.Background(), "newuser")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("strongpassword123", saved.HashedPassword))
}

func TestHandleRegister_DuplicateUsernameConflict(t *testing.T) {
	router, _, store := newAuthRouter(t)
	store.mustAdd(t, "taken", "password123", NewRoleSet(RoleUser))

	rec := postJSON(t, router, "/api/v1/auth/register", RegisterRequest{
		Username: "taken",
		Password: "strongpassword123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
