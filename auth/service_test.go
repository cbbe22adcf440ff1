package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/config"
)

// memoryUserStore is an in-memory UserStore for tests.
type memoryUserStore struct {
	users  map[string]*User
	nextID int64
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*User), nextID: 1}
}

func (m *memoryUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUserStore) Save(_ context.Context, user *User) error {
	if _, ok := m.users[user.Username]; ok {
		return ErrUsernameTaken
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	copied := *user
	m.users[user.Username] = &copied
	return nil
}

func (m *memoryUserStore) mustAdd(t *testing.T, username, password string, roles RoleSet) {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, m.Save(context.Background(), &User{
		Username:       username,
		HashedPassword: hashed,
		Roles:          roles,
	}))
}

func newTestService(t *testing.T, store UserStore) *Service {
	t.Helper()
	codec, err := NewCodec(config.AuthConfig{JWTSecret: testSecret, TokenDuration: time.Hour})
	require.NoError(t, err)
	return NewService(store, codec)
}

func TestAuthenticate_Success(t *testing.T) {
	store := newMemoryUserStore()
	store.mustAdd(t, "adminuser", "password123", NewRoleSet(RoleAdmin, RoleUser))
	svc := newTestService(t, store)

	identity, err := svc.Authenticate(context.Background(), "adminuser", "password123")
	require.NoError(t, err)
	assert.Equal(t, "adminuser", identity.Subject)
	assert.True(t, identity.Roles.Equal(NewRoleSet(RoleAdmin, RoleUser)))
}

func TestAuthenticate_Indistinguishable(t *testing.T) {
	store := newMemoryUserStore()
	store.mustAdd(t, "regularuser", "password123", NewRoleSet(RoleUser))
	svc := newTestService(t, store)

	_, errWrongPassword := svc.Authenticate(context.Background(), "regularuser", "not-the-password")
	_, errUnknownUser := svc.Authenticate(context.Background(), "nobody", "password123")

	require.Error(t, errWrongPassword)
	require.Error(t, errUnknownUser)
	assert.True(t, apperror.IsAuthError(errWrongPassword))
	assert.True(t, apperror.IsAuthError(errUnknownUser))
	// Same user-visible message for both failure modes.
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestLogin_IssuesTokenWithStoredRoles(t *testing.T) {
	store := newMemoryUserStore()
	store.mustAdd(t, "adminuser", "password123", NewRoleSet(RoleAdmin, RoleUser))
	svc := newTestService(t, store)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "adminuser", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.codec.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "adminuser", claims.Subject)
	assert.True(t, claims.Identity().Roles.Equal(NewRoleSet(RoleAdmin, RoleUser)))
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, store)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "newuser",
		Password: "strongpassword123",
	})
	require.NoError(t, err)
	assert.True(t, user.Roles.Equal(NewRoleSet(RoleUser)))
	assert.NotEqual(t, "strongpassword123", user.HashedPassword)
}

func TestRegister_Conflict(t *testing.T) {
	store := newMemoryUserStore()
	store.mustAdd(t, "taken", "password123", NewRoleSet(RoleUser))
	svc := newTestService(t, store)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "taken",
		Password: "strongpassword123",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t, newMemoryUserStore())

	cases := []RegisterRequest{
		{Username: "ab", Password: "strongpassword123"}, // username too short
		{Username: "newuser", Password: "short"},        // password too short
		{Username: "", Password: "strongpassword123"},   // username missing
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperror.IsValidationError(err), "request %+v", req)
	}
}

func TestSeedDefaultUsers(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestService(t, store)

	require.NoError(t, svc.SeedDefaultUsers(context.Background()))

	admin, err := store.FindByUsername(context.Background(), "adminuser")
	require.NoError(t, err)
	assert.True(t, admin.Roles.Equal(NewRoleSet(RoleAdmin, RoleUser)))

	regular, err := store.FindByUsername(context.Background(), "regularuser")
	require.NoError(t, err)
	assert.True(t, regular.Roles.Equal(NewRoleSet(RoleUser)))

	// Running the seed again must not fail or duplicate.
	require.NoError(t, svc.SeedDefaultUsers(context.Background()))
}
