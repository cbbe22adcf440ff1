package departments

// DepartmentRequest is the payload for creating or updating a department.
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100" example:"Human Resources"`
}
