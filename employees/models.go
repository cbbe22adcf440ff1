// Package employees manages employee records: personal details, department
// and manager assignment, and project membership.
package employees

import "time"

// Employee is a member of the organization. DepartmentID is required;
// ManagerID is optional and refers to another employee.
type Employee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Salary       float64   `json:"salary"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Email        string    `json:"email"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	HireDate     time.Time `json:"hire_date"`
	Address      *string   `json:"address,omitempty"`
	DepartmentID int64     `json:"department_id"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	ProjectIDs   []int64   `json:"project_ids"`
}
