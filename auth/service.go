package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/empman-go/apperror"
)

// invalidCredentialsMessage is deliberately identical for an unknown
// username and a wrong password, so callers cannot enumerate accounts.
const invalidCredentialsMessage = "incorrect username or password"

// Service orchestrates credential verification, registration, and token
// issuance over a UserStore capability.
type Service struct {
	store    UserStore
	codec    *Codec
	validate *validator.Validate
}

// NewService creates a Service.
func NewService(store UserStore, codec *Codec) *Service {
	return &Service{
		store:    store,
		codec:    codec,
		validate: validator.New(),
	}
}

// Authenticate verifies a username/password pair against the store and
// returns the verified identity carrying the stored role set. An absent
// username and a wrong password yield the same AuthError. The store is never
// mutated here.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NewAuthError(invalidCredentialsMessage, nil)
		}
		// Infrastructure failure: logged, surfaced as a generic 500, never
		// dressed up as a credential problem.
		log.Printf("auth: store lookup failed for login attempt: %v", err)
		return nil, apperror.NewDatabaseError("failed to look up user", err)
	}

	if !VerifyPassword(password, user.HashedPassword) {
		return nil, apperror.NewAuthError(invalidCredentialsMessage, nil)
	}

	return &Identity{Subject: user.Username, Roles: user.Roles}, nil
}

// Login authenticates the credentials and issues a signed token for the
// resulting identity.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	identity, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, _, err := s.codec.Issue(identity)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		Token:     token,
		ExpiresIn: int64(s.codec.Lifetime().Seconds()),
	}, nil
}

// Register creates a new account. The username is checked before the
// password is hashed, so a duplicate registration does no hashing work.
// Roles default to ROLE_USER when the request omits them.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	_, err := s.store.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, apperror.NewConflictError("username already exists", nil)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, apperror.NewDatabaseError("failed to check username", err)
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	roles := NewRoleSet(req.Roles...)
	if len(roles) == 0 {
		roles = NewRoleSet(RoleUser)
	}

	user := &User{
		Username:       req.Username,
		HashedPassword: hashed,
		Roles:          roles,
	}
	if err := s.store.Save(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			// Lost a race with a concurrent registration.
			return nil, apperror.NewConflictError("username already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

// SeedDefaultUsers creates the default admin and regular accounts when they
// do not exist yet. Idempotent across restarts.
func (s *Service) SeedDefaultUsers(ctx context.Context) error {
	defaults := []struct {
		username string
		password string
		roles    RoleSet
	}{
		{"adminuser", "password123", NewRoleSet(RoleAdmin, RoleUser)},
		{"regularuser", "password123", NewRoleSet(RoleUser)},
	}

	for _, d := range defaults {
		_, err := s.store.FindByUsername(ctx, d.username)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("failed to check seed user %s: %w", d.username, err)
		}

		hashed, err := HashPassword(d.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := &User{Username: d.username, HashedPassword: hashed, Roles: d.roles}
		if err := s.store.Save(ctx, user); err != nil && !errors.Is(err, ErrUsernameTaken) {
			return fmt.Errorf("failed to seed user %s: %w", d.username, err)
		}
	}
	return nil
}

// validationError converts validator output into a ValidationError with a
// compact field list.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperror.NewValidationError("invalid request: "+strings.Join(fields, ", "), err)
	}
	return apperror.NewBadRequestError("invalid request", err)
}
