package projects

// ProjectRequest is the payload for creating or updating a project.
type ProjectRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100" example:"New Website Development"`
}
