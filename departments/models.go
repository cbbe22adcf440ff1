// Package departments manages organizational departments: the units that
// employees belong to.
package departments

// Department is a unit of the organization.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
