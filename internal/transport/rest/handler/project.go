package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"formflow/internal/service"
	"formflow/internal/transport/rest/middleware"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	projectSvc *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectSvc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// ProjectRequest is the request body for creating or renaming a project
type ProjectRequest struct {
	Name string `json:"name"`
}

// Create handles POST /v1/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "project name is required")
		return
	}

	project, err := h.projectSvc.Create(r.Context(), hostID, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// List handles GET /v1/projects. Pass ?trash=true for trashed projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	inTrash := r.URL.Query().Get("trash") == "true"

	projects, err := h.projectSvc.List(r.Context(), hostID, inTrash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// Get handles GET /v1/projects/{projectId}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	project, err := h.projectSvc.GetByID(r.Context(), hostID, projectID)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// Rename handles PUT /v1/projects/{projectId}
func (h *ProjectHandler) Rename(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "project name is required")
		return
	}

	project, err := h.projectSvc.Rename(r.Context(), hostID, projectID, req.Name)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// Trash handles POST /v1/projects/{projectId}/trash
func (h *ProjectHandler) Trash(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	if err := h.projectSvc.Trash(r.Context(), hostID, projectID); err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "trashed"})
}

// Restore handles POST /v1/projects/{projectId}/restore
func (h *ProjectHandler) Restore(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	if err := h.projectSvc.Restore(r.Context(), hostID, projectID); err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// Purge handles DELETE /v1/projects/{projectId}
func (h *ProjectHandler) Purge(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	if err := h.projectSvc.Purge(r.Context(), hostID, projectID); err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}

func writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotInTrash):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
