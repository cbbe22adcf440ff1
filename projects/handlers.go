package projects

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/empman-go/apperror"
	"github.com/user/empman-go/auth"
)

// Handlers exposes project CRUD over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates project Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the project routes on the given router.
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
// @Summary List projects
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} projects.Project
// @Router /api/v1/projects [get]
func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// get godoc
// @Summary Get a project by ID
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} projects.Project
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/projects/{id} [get]
func (h *Handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid project ID", err))
		return
	}
	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// create godoc
// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body projects.ProjectRequest true "Project"
// @Success 201 {object} projects.Project
// @Failure 409 {object} apperror.ErrorResponse
// @Router /api/v1/projects [post]
func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	project, err := h.service.Create(r.Context(), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// update godoc
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param project body projects.ProjectRequest true "Project"
// @Success 200 {object} projects.Project
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/projects/{id} [put]
func (h *Handlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid project ID", err))
		return
	}
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	project, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// delete godoc
// @Summary Delete a project
// @Tags Projects
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 204 "No Content"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/v1/projects/{id} [delete]
func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid project ID", err))
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
