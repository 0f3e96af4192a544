package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/store"
)

const defaultProjectPageSize = 50

// ProjectHandler serves portfolio project CRUD. The list is public; all
// mutations sit behind the strict bearer gate.
type ProjectHandler struct {
	store *store.Store
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(st *store.Store) *ProjectHandler {
	return &ProjectHandler{store: st}
}

// List returns one page of projects ordered by the sort key ascending, then
// most recently updated first.
// GET /api/v1/projects/?page=1&size=50
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, defaultProjectPageSize)

	projects, total, err := h.store.ListProjects(r.Context(), page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, model.Page[model.Project]{
		Items: projects,
		Total: total,
		Page:  page,
		Size:  size,
	})
}

// Get returns a single project.
// GET /api/v1/projects/{projectID}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "projectID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// createProjectRequest is the payload for Create.
type createProjectRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Image       *string    `json:"image"`
	Tags        model.Tags `json:"tags"`
	GitHubURL   *string    `json:"github_url"`
	LiveURL     *string    `json:"live_url"`
	Order       string     `json:"order"`
}

// Create stores a new project.
// POST /api/v1/projects/
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusUnprocessableEntity, "Title and description are required")
		return
	}

	project := &model.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
		Tags:        req.Tags,
		GitHubURL:   req.GitHubURL,
		LiveURL:     req.LiveURL,
		Order:       req.Order,
	}
	if err := h.store.CreateProject(r.Context(), project); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Patch merges the supplied fields into an existing project.
// PATCH /api/v1/projects/{projectID}
func (h *ProjectHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "projectID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	var patch model.ProjectPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "Title cannot be empty")
		return
	}

	project, err := h.store.UpdateProject(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete removes a project.
// DELETE /api/v1/projects/{projectID}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "projectID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
