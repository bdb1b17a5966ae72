package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formflow/internal/service"
	"formflow/internal/transport/rest/middleware"
)

// SessionHandler handles respondent session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	authSvc    *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		authSvc:    authSvc,
	}
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	SurveyID string `json:"surveyId"`
}

// SubmitAnswerRequest is the request body for answering a question
type SubmitAnswerRequest struct {
	QuestionID string      `json:"questionId"`
	Value      interface{} `json:"value"`
}

// Start handles POST /v1/sessions. It is the only public session
// endpoint; the returned token scopes every later call to this session.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SurveyID == "" {
		writeError(w, http.StatusBadRequest, "surveyId is required")
		return
	}

	session, first, err := h.sessionSvc.Start(r.Context(), req.SurveyID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	token, err := h.authSvc.IssueRespondentToken(session.ID, session.SurveyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":    token,
		"session":  session,
		"question": first,
	})
}

// Get handles GET /v1/sessions/me
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	session, err := h.sessionSvc.Get(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// VisibleQuestions handles GET /v1/sessions/me/questions. It returns the
// questions currently visible given the session's answers so far.
func (h *SessionHandler) VisibleQuestions(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	questions, err := h.sessionSvc.VisibleQuestions(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// SubmitAnswer handles POST /v1/sessions/me/answers. A rejected answer is
// a 200 carrying the validation report; the session does not advance.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	result, err := h.sessionSvc.SubmitAnswer(r.Context(), sessionID, req.QuestionID, req.Value)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Restart handles POST /v1/sessions/me/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	session, first, err := h.sessionSvc.Restart(r.Context(), sessionID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":  session,
		"question": first,
	})
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSurveyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionCompleted), errors.Is(err, service.ErrSurveyNotPublished):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWrongQuestion):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
