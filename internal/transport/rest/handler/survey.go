package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"formflow/internal/model"
	"formflow/internal/service"
	"formflow/internal/transport/rest/middleware"
)

// SurveyHandler handles survey builder endpoints
type SurveyHandler struct {
	surveySvc *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// SurveyRequest is the request body for creating or updating a survey
type SurveyRequest struct {
	Title         string           `json:"title"`
	SchemaVersion int              `json:"schemaVersion"`
	Questions     []model.Question `json:"questions"`
}

// ReorderRequest is the request body for reordering questions
type ReorderRequest struct {
	QuestionIDs []string `json:"questionIds"`
}

// Create handles POST /v1/projects/{projectId}/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		ProjectID:     projectID,
		Title:         req.Title,
		SchemaVersion: req.SchemaVersion,
		Questions:     req.Questions,
	}

	created, err := h.surveySvc.Create(r.Context(), hostID, survey)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /v1/projects/{projectId}/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	projectID := mux.Vars(r)["projectId"]

	surveys, err := h.surveySvc.ListByProject(r.Context(), hostID, projectID)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	survey, err := h.surveySvc.GetByID(r.Context(), hostID, surveyID)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// Update handles PUT /v1/surveys/{surveyId}
func (h *SurveyHandler) Update(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey := &model.Survey{
		ID:            surveyID,
		Title:         req.Title,
		SchemaVersion: req.SchemaVersion,
		Questions:     req.Questions,
	}

	updated, err := h.surveySvc.Update(r.Context(), hostID, survey)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Reorder handles POST /v1/surveys/{surveyId}/reorder
func (h *SurveyHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveySvc.Reorder(r.Context(), hostID, surveyID, req.QuestionIDs)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

// Validate handles POST /v1/surveys/{surveyId}/validate
func (h *SurveyHandler) Validate(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	report, err := h.surveySvc.Validate(r.Context(), hostID, surveyID)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Publish handles POST /v1/surveys/{surveyId}/publish. Integrity errors
// block publishing; the report comes back with a 422.
func (h *SurveyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	report, err := h.surveySvc.Publish(r.Context(), hostID, surveyID)
	if errors.Is(err, service.ErrSurveyNotValid) {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Unpublish handles POST /v1/surveys/{surveyId}/unpublish
func (h *SurveyHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	if err := h.surveySvc.Unpublish(r.Context(), hostID, surveyID); err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "draft"})
}

// Delete handles DELETE /v1/surveys/{surveyId}
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	if err := h.surveySvc.Delete(r.Context(), hostID, surveyID); err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Responses handles GET /v1/surveys/{surveyId}/responses
func (h *SurveyHandler) Responses(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	surveyID := mux.Vars(r)["surveyId"]

	responses, err := h.surveySvc.Responses(r.Context(), hostID, surveyID)
	if err != nil {
		writeSurveyError(w, err)
		return
	}
	count, err := h.surveySvc.ResponseCount(r.Context(), hostID, surveyID)
	if err != nil {
		writeSurveyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"responses": responses,
		"count":     count,
	})
}

func writeSurveyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSurveyNotFound), errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSurveyPublished):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
