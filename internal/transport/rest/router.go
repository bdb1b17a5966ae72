package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"formflow/internal/service"
	"formflow/internal/transport/rest/handler"
	"formflow/internal/transport/rest/middleware"
	"formflow/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	ProjectService *service.ProjectService
	SurveyService  *service.SurveyService
	SessionService *service.SessionService
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	projectHandler := handler.NewProjectHandler(c.ProjectService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.AuthService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/surveys/{surveyId}", wsHandler.BuilderWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/projects", projectHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/projects", projectHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/projects/{projectId}", projectHandler.Rename).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/projects/{projectId}", projectHandler.Purge).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/projects/{projectId}/trash", projectHandler.Trash).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/projects/{projectId}/restore", projectHandler.Restore).Methods("POST", "OPTIONS")

	hostRoutes.HandleFunc("/projects/{projectId}/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/projects/{projectId}/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/reorder", surveyHandler.Reorder).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/validate", surveyHandler.Validate).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/publish", surveyHandler.Publish).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/unpublish", surveyHandler.Unpublish).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/responses", surveyHandler.Responses).Methods("GET", "OPTIONS")

	// Respondent routes (require session auth)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/sessions/me", sessionHandler.Get).Methods("GET", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/me/questions", sessionHandler.VisibleQuestions).Methods("GET", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/me/answers", sessionHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/sessions/me/restart", sessionHandler.Restart).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
