package departments

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/empman-go/apperror"
)

// PostgreSQL error codes consulted when mapping constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Service provides department persistence and lookup.
type Service struct {
	db       *pgxpool.Pool
	validate *validator.Validate
}

// NewService creates a department Service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db, validate: validator.New()}
}

// List returns all departments ordered by name.
func (s *Service) List(ctx context.Context) ([]Department, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM department ORDER BY name`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list departments", err)
	}
	defer rows.Close()

	departments := []Department{}
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan department", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read departments", err)
	}
	return departments, nil
}

// Get returns a department by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	var d Department
	err := s.db.QueryRow(ctx, `SELECT id, name FROM department WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("department with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get department", err)
	}
	return &d, nil
}

// Create inserts a new department.
func (s *Service) Create(ctx context.Context, req DepartmentRequest) (*Department, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("invalid department: "+err.Error(), err)
	}

	var d Department
	err := s.db.QueryRow(ctx,
		`INSERT INTO department (name) VALUES ($1) RETURNING id, name`, req.Name,
	).Scan(&d.ID, &d.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("department name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create department", err)
	}
	return &d, nil
}

// Update renames a department.
func (s *Service) Update(ctx context.Context, id int64, req DepartmentRequest) (*Department, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("invalid department: "+err.Error(), err)
	}

	var d Department
	err := s.db.QueryRow(ctx,
		`UPDATE department SET name = $1 WHERE id = $2 RETURNING id, name`, req.Name, id,
	).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("department with ID %d not found", id), nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("department name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update department", err)
	}
	return &d, nil
}

// Delete removes a department. Departments that still have employees are
// protected by a foreign key and cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperror.NewConflictError("department still has employees assigned", nil)
		}
		return apperror.NewDatabaseError("failed to delete department", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("department with ID %d not found", id), nil)
	}
	return nil
}
