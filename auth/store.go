package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors returned by UserStore implementations. The service layer
// translates these into user-facing apperror values.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// UserStore is the credential store capability the auth service consumes.
// It owns all Account persistence; the service never sees SQL.
type UserStore interface {
	// FindByUsername returns the account with the given username, or
	// ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Save inserts a new account, filling in its ID and creation time, or
	// returns ErrUsernameTaken when the username is already registered.
	Save(ctx context.Context, user *User) error
}

// PostgresUserStore implements UserStore over a pgx connection pool. Roles
// are stored as a comma-delimited column and parsed into a RoleSet at load
// time, once.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, password, roles, created_at FROM app_user WHERE username = $1`

	var user User
	var roles string
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &roles, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Roles = ParseRoles(roles)
	return &user, nil
}

func (s *PostgresUserStore) Save(ctx context.Context, user *User) error {
	query := `INSERT INTO app_user (username, password, roles)
              VALUES ($1, $2, $3)
              RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, user.Username, user.HashedPassword, user.Roles.String()).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}
