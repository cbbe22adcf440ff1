package auth

import (
	"testing"
	"time"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T, lifetime time.Duration) *Codec {
	t.Helper()
	codec, err := NewCodec(config.AuthConfig{JWTSecret: testSecret, TokenDuration: lifetime})
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	return codec
}

func TestNewCodec_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(config.AuthConfig{JWTSecret: "tooshort", TokenDuration: time.Hour})
	if err == nil {
		t.Fatalf("expected error for undersized secret, got nil")
	}
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.ConfigError {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, time.Hour)
	identity := &Identity{
		Subject: "adminuser",
		Roles:   NewRoleSet(RoleAdmin, RoleUser),
	}

	token, _, err := codec.Issue(identity)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	got := claims.Identity()
	if got.Subject != identity.Subject {
		t.Fatalf("subject mismatch: got %q want %q", got.Subject, identity.Subject)
	}
	if !got.Roles.Equal(identity.Roles) {
		t.Fatalf("roles mismatch: got %v want %v", got.Roles, identity.Roles)
	}
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	lifetime := time.Hour
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	codec := newTestCodec(t, lifetime)
	codec.now = func() time.Time { return issuedAt }

	token, expiresAt, err := codec.Issue(&Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !expiresAt.Equal(issuedAt.Add(lifetime)) {
		t.Fatalf("expiresAt mismatch: got %v want %v", expiresAt, issuedAt.Add(lifetime))
	}

	// One second before expiry the token is still valid.
	codec.now = func() time.Time { return issuedAt.Add(lifetime - time.Second) }
	if _, err := codec.Parse(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	// At the expiry instant it is not.
	codec.now = func() time.Time { return issuedAt.Add(lifetime) }
	if _, err := codec.Parse(token); err == nil {
		t.Fatalf("expected token invalid at expiry instant")
	}
}

func TestCodec_Tampering(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, time.Hour)
	token, _, err := codec.Issue(&Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one character somewhere in the payload segment; signature
	// verification must fail.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	if _, err := codec.Parse(string(tampered)); err == nil {
		t.Fatalf("expected tampered token to fail signature verification")
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, time.Hour)
	token, _, err := codec.Issue(&Identity{Subject: "regularuser", Roles: NewRoleSet(RoleUser)})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other, err := NewCodec(config.AuthConfig{
		JWTSecret:     "ffffffffffffffffffffffffffffffff",
		TokenDuration: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCodec error: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected token signed with different key to fail")
	}
}

func TestCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := codec.Parse(tok)
		if err == nil {
			t.Fatalf("expected error for malformed token %q", tok)
		}
		if !apperror.IsAuthError(err) {
			t.Fatalf("expected AuthError for malformed token %q, got %v", tok, err)
		}
	}
}
