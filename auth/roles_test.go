package auth

import "testing"

func TestParseRoles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want RoleSet
	}{
		{"ROLE_ADMIN,ROLE_USER", RoleSet{"ROLE_ADMIN", "ROLE_USER"}},
		{"ROLE_USER", RoleSet{"ROLE_USER"}},
		{" ROLE_USER , ROLE_ADMIN ", RoleSet{"ROLE_USER", "ROLE_ADMIN"}},
		{"ROLE_USER,ROLE_USER", RoleSet{"ROLE_USER"}},
		{"", nil},
		{",,", nil},
	}

	for _, tc := range cases {
		got := ParseRoles(tc.in)
		if !got.Equal(tc.want) {
			t.Errorf("ParseRoles(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRoleSet_RoundTrip(t *testing.T) {
	t.Parallel()

	set := NewRoleSet(RoleAdmin, RoleUser)
	if got := ParseRoles(set.String()); !got.Equal(set) {
		t.Fatalf("round trip mismatch: got %v want %v", got, set)
	}
}

func TestRoleSet_HasAny(t *testing.T) {
	t.Parallel()

	set := NewRoleSet(RoleUser)
	if !set.HasAny(RoleUser, RoleAdmin) {
		t.Fatalf("expected HasAny to match ROLE_USER")
	}
	if set.HasAny(RoleAdmin) {
		t.Fatalf("did not expect ROLE_ADMIN in %v", set)
	}
	if set.HasAny() {
		t.Fatalf("HasAny with no arguments must be false")
	}
}
