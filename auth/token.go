package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/config"
)

const (
	// minSecretBytes is the minimum signing key length for HS256.
	minSecretBytes = 32

	tokenIssuer = "empman"
)

// Claims is the payload of an issued token: the subject username, the role
// set granted at login, and the registered timestamp claims.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity reconstructs the request-scoped identity carried by the claims.
func (c *Claims) Identity() *Identity {
	return &Identity{
		Subject: c.Subject,
		Roles:   NewRoleSet(c.Roles...),
	}
}

// Codec issues and validates signed tokens. The signing key is fixed at
// construction and read-only afterwards, so a single Codec is safely shared
// across concurrent requests. A token is valid iff its HMAC signature
// verifies and its expiry has not passed; no other state is consulted.
type Codec struct {
	secret   []byte
	lifetime time.Duration

	// now is the clock used for both issuance and expiry checks. Tests
	// substitute a fixed clock.
	now func() time.Time
}

// NewCodec builds a Codec from the auth configuration. A signing key shorter
// than 256 bits is a configuration error and is rejected here, at startup.
func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if len(cfg.JWTSecret) < minSecretBytes {
		return nil, apperror.NewConfigError(
			fmt.Sprintf("JWT secret must be at least %d bytes, got %d", minSecretBytes, len(cfg.JWTSecret)), nil)
	}
	if cfg.TokenDuration <= 0 {
		return nil, apperror.NewConfigError("token duration must be positive", nil)
	}
	return &Codec{
		secret:   []byte(cfg.JWTSecret),
		lifetime: cfg.TokenDuration,
		now:      time.Now,
	}, nil
}

// Issue signs a token for the identity. The returned expiry is
// issuance time plus the configured lifetime.
func (c *Codec) Issue(identity *Identity) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.lifetime)

	claims := &Claims{
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Parse verifies the token's signature and expiry and returns its claims.
// Every failure mode, whether a malformed string, a bad signature, an
// unexpected algorithm, or an expired token, surfaces as an AuthError so the
// boundary responds 401 without exposing parser internals.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.NewAuthError("token has expired", err)
		}
		return nil, apperror.NewAuthError("invalid token", err)
	}
	if !token.Valid {
		return nil, apperror.NewAuthError("invalid token", nil)
	}
	if claims.Subject == "" {
		return nil, apperror.NewAuthError("invalid token: subject claim is missing", nil)
	}
	return claims, nil
}

// Lifetime returns the configured token lifetime.
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}
