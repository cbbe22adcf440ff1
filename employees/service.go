package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/empman-go/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Service provides employee persistence, relational lookups, and project
// assignment.
type Service struct {
	db       *pgxpool.Pool
	validate *validator.Validate
}

// NewService creates an employee Service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db, validate: validator.New()}
}

const employeeColumns = `id, name, role, salary, date_of_birth, email, phone_number, hire_date, address, department_id, manager_id`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Role, &e.Salary, &e.DateOfBirth, &e.Email,
		&e.PhoneNumber, &e.HireDate, &e.Address, &e.DepartmentID, &e.ManagerID,
	)
	if err != nil {
		return nil, err
	}
	e.ProjectIDs = []int64{}
	return &e, nil
}

// List returns all employees with their project assignments.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.Query(ctx, `SELECT `+employeeColumns+` FROM employee ORDER BY id`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list employees", err)
	}
	defer rows.Close()

	employees := []Employee{}
	index := map[int64]int{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan employee", err)
		}
		index[e.ID] = len(employees)
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read employees", err)
	}

	// One pass over the join table fills every assignment set.
	assignRows, err := s.db.Query(ctx, `SELECT employee_id, project_id FROM employee_project`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load project assignments", err)
	}
	defer assignRows.Close()
	for assignRows.Next() {
		var employeeID, projectID int64
		if err := assignRows.Scan(&employeeID, &projectID); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan project assignment", err)
		}
		if i, ok := index[employeeID]; ok {
			employees[i].ProjectIDs = append(employees[i].ProjectIDs, projectID)
		}
	}
	if err := assignRows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read project assignments", err)
	}

	return employees, nil
}

// Get returns an employee by ID, including project assignments.
func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	row := s.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employee WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("employee with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get employee", err)
	}

	projectIDs, err := s.loadProjectIDs(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	e.ProjectIDs = projectIDs
	return e, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *Service) loadProjectIDs(ctx context.Context, q queryer, employeeID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT project_id FROM employee_project WHERE employee_id = $1 ORDER BY project_id`, employeeID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to load project assignments", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan project assignment", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read project assignments", err)
	}
	return ids, nil
}

// Create inserts a new employee and its project assignments in one
// transaction.
func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("invalid employee: "+err.Error(), err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO employee (name, role, salary, date_of_birth, email, phone_number, hire_date, address, department_id, manager_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id`,
		req.Name, req.Role, req.Salary, req.DateOfBirth, strings.ToLower(req.Email),
		req.PhoneNumber, req.HireDate, req.Address, req.DepartmentID, req.ManagerID,
	).Scan(&id)
	if err != nil {
		return nil, mapEmployeeWriteError(err)
	}

	for _, projectID := range req.ProjectIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO employee_project (employee_id, project_id) VALUES ($1, $2)`, id, projectID); err != nil {
			return nil, mapEmployeeWriteError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewDatabaseError("failed to commit employee creation", err)
	}
	return s.Get(ctx, id)
}

// Update applies a partial update. Only non-nil fields change; a non-nil
// ProjectIDs replaces the full assignment set.
func (s *Service) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (*Employee, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperror.NewValidationError("invalid employee: "+err.Error(), err)
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Role != nil {
		addSet("role", *req.Role)
	}
	if req.Salary != nil {
		addSet("salary", *req.Salary)
	}
	if req.DateOfBirth != nil {
		addSet("date_of_birth", *req.DateOfBirth)
	}
	if req.Email != nil {
		addSet("email", strings.ToLower(*req.Email))
	}
	if req.PhoneNumber != nil {
		addSet("phone_number", *req.PhoneNumber)
	}
	if req.HireDate != nil {
		addSet("hire_date", *req.HireDate)
	}
	if req.Address != nil {
		addSet("address", *req.Address)
	}
	if req.DepartmentID != nil {
		addSet("department_id", *req.DepartmentID)
	}
	if req.ManagerID != nil {
		addSet("manager_id", *req.ManagerID)
	}

	if len(setClauses) == 0 && req.ProjectIDs == nil {
		return nil, apperror.NewBadRequestError("no fields provided for update", nil)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if len(setClauses) > 0 {
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE employee SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), argID)
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return nil, mapEmployeeWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("employee with ID %d not found", id), nil)
		}
	}

	if req.ProjectIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM employee_project WHERE employee_id = $1`, id); err != nil {
			return nil, apperror.NewDatabaseError("failed to clear project assignments", err)
		}
		for _, projectID := range req.ProjectIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO employee_project (employee_id, project_id) VALUES ($1, $2)`, id, projectID); err != nil {
				return nil, mapEmployeeWriteError(err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewDatabaseError("failed to commit employee update", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an employee, its project assignments, and clears the
// manager reference on any reports.
func (s *Service) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE employee SET manager_id = NULL WHERE manager_id = $1`, id); err != nil {
		return apperror.NewDatabaseError("failed to clear manager references", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM employee_project WHERE employee_id = $1`, id); err != nil {
		return apperror.NewDatabaseError("failed to remove project assignments", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete employee", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("employee with ID %d not found", id), nil)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewDatabaseError("failed to commit employee deletion", err)
	}
	return nil
}

// AssignProject adds the employee to a project. Assigning twice is a no-op.
func (s *Service) AssignProject(ctx context.Context, employeeID, projectID int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO employee_project (employee_id, project_id) VALUES ($1, $2)
         ON CONFLICT DO NOTHING`, employeeID, projectID)
	if err != nil {
		return mapEmployeeWriteError(err)
	}
	return nil
}

// UnassignProject removes the employee from a project.
func (s *Service) UnassignProject(ctx context.Context, employeeID, projectID int64) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM employee_project WHERE employee_id = $1 AND project_id = $2`, employeeID, projectID)
	if err != nil {
		return apperror.NewDatabaseError("failed to unassign project", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("project assignment not found", nil)
	}
	return nil
}

// mapEmployeeWriteError translates constraint violations into user-facing
// errors: duplicate email is a conflict, a dangling department, manager, or
// project reference is a not-found.
func mapEmployeeWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "email") {
				return apperror.NewConflictError("email already exists", nil)
			}
			return apperror.NewConflictError("employee already exists", nil)
		case pgForeignKeyViolation:
			switch {
			case strings.Contains(pgErr.ConstraintName, "department"):
				return apperror.NewNotFoundError("department not found", nil)
			case strings.Contains(pgErr.ConstraintName, "manager"):
				return apperror.NewNotFoundError("manager not found", nil)
			case strings.Contains(pgErr.ConstraintName, "project"):
				return apperror.NewNotFoundError("project not found", nil)
			case strings.Contains(pgErr.ConstraintName, "employee"):
				return apperror.NewNotFoundError("employee not found", nil)
			}
		}
	}
	return apperror.NewDatabaseError("failed to write employee", err)
}
