package employees

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/auth"
)

// Handlers exposes employee CRUD and project assignment over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates employee Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the employee routes on the given router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/projects/{projectID}", h.assignProject)
	r.Delete("/{id}/projects/{projectID}", h.unassignProject)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// list godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} employees.Employee
// @Router /api/v1/employees [get]
func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// get godoc
// @Summary Get an employee by ID
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} employees.Employee
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/employees/{id} [get]
func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid employee ID", err))
		return
	}
	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

// create godoc
// @Summary Create an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body employees.CreateEmployeeRequest true "Employee"
// @Success 201 {object} employees.Employee
// @Failure 404 {object} apperror.ErrorResponse "Referenced department, manager, or project missing"
// @Failure 409 {object} apperror.ErrorResponse "Email already exists"
// @Router /api/v1/employees [post]
func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	employee, err := h.service.Create(r.Context(), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, employee)
}

// update godoc
// @Summary Update an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Param employee body employees.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} employees.Employee
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/employees/{id} [put]
func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid employee ID", err))
		return
	}
	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	employee, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

// delete godoc
// @Summary Delete an employee
// @Tags Employees
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/employees/{id} [delete]
func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid employee ID", err))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// assignProject godoc
// @Summary Assign an employee to a project
// @Tags Employees
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Param projectID path int true "Project ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/employees/{id}/projects/{projectID} [post]
func (h *Handlers) assignProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid employee ID", err))
		return
	}
	projectID, err := pathID(r, "projectID")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid project ID", err))
		return
	}
	if err := h.service.AssignProject(r.Context(), id, projectID); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// unassignProject godoc
// @Summary Remove an employee from a project
// @Tags Employees
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Param projectID path int true "Project ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/employees/{id}/projects/{projectID} [delete]
func (h *Handlers) unassignProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid employee ID", err))
		return
	}
	projectID, err := pathID(r, "projectID")
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid project ID", err))
		return
	}
	if err := h.service.UnassignProject(r.Context(), id, projectID); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}
