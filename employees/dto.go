package employees

import "time"

// CreateEmployeeRequest is the payload for creating an employee.
type CreateEmployeeRequest struct {
	Name         string    `json:"name" validate:"required,min=2,max=100" example:"John Doe"`
	Role         string    `json:"role" validate:"required" example:"Software Engineer"`
	Salary       float64   `json:"salary" validate:"required,gte=0" example:"60000"`
	DateOfBirth  time.Time `json:"date_of_birth" validate:"required" example:"1990-01-15T00:00:00Z"`
	Email        string    `json:"email" validate:"required,email" example:"john.doe@example.com"`
	PhoneNumber  *string   `json:"phone_number,omitempty" example:"123-456-7890"`
	HireDate     time.Time `json:"hire_date" validate:"required" example:"2021-06-01T00:00:00Z"`
	Address      *string   `json:"address,omitempty" example:"123 Main St, Anytown"`
	DepartmentID int64     `json:"department_id" validate:"required,gt=0" example:"1"`
	ManagerID    *int64    `json:"manager_id,omitempty" example:"2"`
	ProjectIDs   []int64   `json:"project_ids,omitempty"`
}

// UpdateEmployeeRequest is the payload for a partial employee update. Nil
// fields are left unchanged; a non-nil ProjectIDs replaces the assignment
// set.
type UpdateEmployeeRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role         *string    `json:"role,omitempty" validate:"omitempty,min=1"`
	Salary       *float64   `json:"salary,omitempty" validate:"omitempty,gte=0"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Email        *string    `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber  *string    `json:"phone_number,omitempty"`
	HireDate     *time.Time `json:"hire_date,omitempty"`
	Address      *string    `json:"address,omitempty"`
	DepartmentID *int64     `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	ManagerID    *int64     `json:"manager_id,omitempty"`
	ProjectIDs   []int64    `json:"project_ids,omitempty"`
}
