package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func orgPolicy() *Policy {
	return NewPolicy(
		Rule{Method: http.MethodGet, Prefix: "/api/v1/employees", AnyOf: []string{RoleUser, RoleAdmin}},
		Rule{Prefix: "/api/v1/employees", AnyOf: []string{RoleAdmin}},
		Rule{Method: http.MethodGet, Prefix: "/api/v1/departments", AnyOf: []string{RoleUser, RoleAdmin}},
		Rule{Prefix: "/api/v1/departments", AnyOf: []string{RoleAdmin}},
	)
}

func TestPolicy_AnyOfRoleAllowed(t *testing.T) {
	t.Parallel()
	policy := orgPolicy()

	user := &Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)}
	assert.True(t, policy.Authorize(user, http.MethodGet, "/api/v1/employees"))
	assert.True(t, policy.Authorize(user, http.MethodGet, "/api/v1/employees/42"))
}

func TestPolicy_AdminOnlyWrite(t *testing.T) {
	t.Parallel()
	policy := orgPolicy()

	user := &Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)}
	admin := &Identity{Subject: "adminuser", Roles: NewRoleSet(RoleAdmin, RoleUser)}

	assert.False(t, policy.Authorize(user, http.MethodPost, "/api/v1/employees"))
	assert.False(t, policy.Authorize(user, http.MethodDelete, "/api/v1/departments/3"))
	assert.True(t, policy.Authorize(admin, http.MethodPost, "/api/v1/employees"))
	assert.True(t, policy.Authorize(admin, http.MethodPut, "/api/v1/departments/3"))
}

func TestPolicy_UnmatchedRouteAnyRole(t *testing.T) {
	t.Parallel()
	policy := orgPolicy()

	// Routes outside the table only require an authenticated identity.
	user := &Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)}
	assert.True(t, policy.Authorize(user, http.MethodGet, "/api/v1/somewhere-else"))
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	t.Parallel()

	// The GET rule precedes the catch-all write rule for the same prefix, so
	// rule order decides which applies.
	policy := orgPolicy()
	user := &Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)}

	assert.True(t, policy.Authorize(user, http.MethodGet, "/api/v1/departments"))
	assert.False(t, policy.Authorize(user, http.MethodPost, "/api/v1/departments"))
}
