// Package projects manages organizational projects that employees can be
// assigned to.
package projects

// Project is a unit of work within the organization.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
