// Package auth implements the stateless authentication and authorization
// core: password hashing, signed token issuance and validation, the
// per-request token gate, and role-based access policy.
package auth

import "strings"

// Well-known role names.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// RoleSet is a de-duplicated set of role names. Accounts persist roles as a
// comma-delimited string; ParseRoles converts that storage form exactly once
// when the account is loaded, and nothing downstream re-splits it.
type RoleSet []string

// NewRoleSet builds a RoleSet from role names, dropping blanks and
// duplicates while preserving first-seen order.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" || set.Has(role) {
			continue
		}
		set = append(set, role)
	}
	return set
}

// ParseRoles parses the comma-delimited storage form, e.g.
// "ROLE_ADMIN,ROLE_USER".
func ParseRoles(s string) RoleSet {
	return NewRoleSet(strings.Split(s, ",")...)
}

// Has reports whether the set contains role.
func (rs RoleSet) Has(role string) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the set contains at least one of the given roles.
func (rs RoleSet) HasAny(roles ...string) bool {
	for _, role := range roles {
		if rs.Has(role) {
			return true
		}
	}
	return false
}

// Equal reports whether two sets contain the same roles, ignoring order.
func (rs RoleSet) Equal(other RoleSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for _, r := range rs {
		if !other.Has(r) {
			return false
		}
	}
	return true
}

// String returns the comma-delimited storage form.
func (rs RoleSet) String() string {
	return strings.Join(rs, ",")
}
