package departments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/auth"
)

// Handlers exposes department CRUD over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates department Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the department routes on the given router. The
// router group is expected to already carry the token gate and access
// policy middleware.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// list godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} departments.Department
// @Router /api/v1/departments [get]
func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

// get godoc
// @Summary Get a department by ID
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} departments.Department
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/departments/{id} [get]
func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid department ID", err))
		return
	}
	department, err := h.service.Get(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, department)
}

// create godoc
// @Summary Create a department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param department body departments.DepartmentRequest true "Department"
// @Success 201 {object} departments.Department
// @Failure 409 {object} apperror.ErrorResponse
// @Router /api/v1/departments [post]
func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	department, err := h.service.Create(r.Context(), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, department)
}

// update godoc
// @Summary Update a department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param department body departments.DepartmentRequest true "Department"
// @Success 200 {object} departments.Department
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/departments/{id} [put]
func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid department ID", err))
		return
	}
	var req DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	department, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, department)
}

// delete godoc
// @Summary Delete a department
// @Tags Departments
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse
// @Router /api/v1/departments/{id} [delete]
func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid department ID", err))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
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
