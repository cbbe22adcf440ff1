package projects

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

const pgUniqueViolation = "23505"

// Service provides project persistence and lookup.
type Service struct {
	db       *pgxpool.Pool
	validate *validator.Validate
}

// NewService creates a project Service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db, validate: validator.New()}
}

// List returns all projects ordered by name.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM project ORDER BY name`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list projects", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read projects", err)
	}
	return projects, nil
}

// Get returns a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := s.db.QueryRow(ctx, `SELECT id, name FROM project WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("project with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get project", err)
	}
	return &p, nil
}

// Create inserts a new project.
func (s *Service) Create(ctx context.Context, req ProjectRequest) (*Project, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("invalid project: "+err.Error(), err)
	}

	var p Project
	err := s.db.QueryRow(ctx,
		`INSERT INTO project (name) VALUES ($1) RETURNING id, name`, req.Name,
	).Scan(&p.ID, &p.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("project name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create project", err)
	}
	return &p, nil
}

// Update renames a project.
func (s *Service) Update(ctx context.Context, id int64, req ProjectRequest) (*Project, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("invalid project: "+err.Error(), err)
	}

	var p Project
	err := s.db.QueryRow(ctx,
		`UPDATE project SET name = $1 WHERE id = $2 RETURNING id, name`, req.Name, id,
	).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("project with ID %d not found", id), nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("project name already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update project", err)
	}
	return &p, nil
}

// Delete removes a project and its employee assignments.
func (s *Service) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM employee_project WHERE project_id = $1`, id); err != nil {
		return apperror.NewDatabaseError("failed to remove project assignments", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM project WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("project with ID %d not found", id), nil)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit project deletion", err)
	}
	return nil
}
