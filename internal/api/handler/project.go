package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/project"
)

// Project list pagination bounds.
const (
	defaultProjectPageLimit = 50
	maxProjectPageLimit     = 100
)

// ProjectHandler handles restoration project endpoints.
type ProjectHandler struct {
	projectService *project.Service
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *project.Service) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject handles POST /v1/projects - register a project and analyze its site.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.ProjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.projectService.Create(r.Context(), userID, &input)
	if err != nil {
		h.writeProjectError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/projects/%s", created.ID)
	response.Created(w, r, location, created)
}

// ListProjects handles GET /v1/projects - list the user's projects, newest first.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	opts := project.ListOptions{
		Limit:  defaultProjectPageLimit,
		Cursor: r.URL.Query().Get("cursor"),
		Status: project.Status(r.URL.Query().Get("status")),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.BadRequest(w, r, "validation error", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer"},
			})
			return
		}
		if limit > maxProjectPageLimit {
			limit = maxProjectPageLimit
		}
		opts.Limit = limit
	}

	projects, err := h.projectService.List(r.Context(), userID, opts)
	if err != nil {
		h.writeProjectError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, projects)
}

// GetProject handles GET /v1/projects/{projectId} - get one project.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		response.BadRequest(w, r, "projectId is required", nil)
		return
	}

	p, err := h.projectService.Get(r.Context(), userID, projectID)
	if err != nil {
		h.writeProjectError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}

// UpdateProject handles PUT /v1/projects/{projectId} - partial update.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		response.BadRequest(w, r, "projectId is required", nil)
		return
	}

	var input models.ProjectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.projectService.Update(r.Context(), userID, projectID, &input)
	if err != nil {
		h.writeProjectError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteProject handles DELETE /v1/projects/{projectId} - delete a project.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		response.BadRequest(w, r, "projectId is required", nil)
		return
	}

	if err := h.projectService.Delete(r.Context(), userID, projectID); err != nil {
		h.writeProjectError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// ReanalyzeProject handles POST /v1/projects/{projectId}/reanalyze - re-run
// the site analysis and replace the stored snapshot.
func (h *ProjectHandler) ReanalyzeProject(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		response.BadRequest(w, r, "projectId is required", nil)
		return
	}

	p, err := h.projectService.Reanalyze(r.Context(), userID, projectID)
	if err != nil {
		h.writeProjectError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}

// writeProjectError maps project service errors to API responses.
func (h *ProjectHandler) writeProjectError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *project.ValidationError
	if errors.As(err, &validationErr) {
		response.BadRequest(w, r, "validation error", validationErr.Errors)
		return
	}

	if fieldErrors := analysisFieldErrors(err); fieldErrors != nil {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	writeProjectLookupError(w, r, err)
}

// writeProjectLookupError maps project lookup errors to API responses.
// Another user's project looks the same as a missing one.
func writeProjectLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, project.ErrProjectNotFound) || errors.Is(err, project.ErrNotAuthorized) {
		response.NotFound(w, r, "project not found")
		return
	}

	response.InternalError(w, r, "project operation failed")
}
