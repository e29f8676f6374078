// Package handlers contains HTTP request handlers for the ProCollekt API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/models"
	"github.com/aquabrain57/procollekt-server/internal/services"
)

// SurveyHandler handles survey authoring endpoints
type SurveyHandler struct {
	svc    *services.SurveyService
	logger *zap.SugaredLogger
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(svc *services.SurveyService, logger *zap.SugaredLogger) *SurveyHandler {
	return &SurveyHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.SurveyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Title == "" || len(input.Fields) == 0 {
		respondError(w, http.StatusBadRequest, "Missing required fields: title, fields")
		return
	}

	survey, err := h.svc.Create(r.Context(), &input)
	if err != nil {
		h.logger.Errorw("Failed to create survey", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	respondJSON(w, http.StatusCreated, survey)
}

// Get handles GET /api/v1/surveys/{surveyID}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	survey, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Survey not found")
		return
	}

	respondJSON(w, http.StatusOK, survey)
}

// List handles GET /api/v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list surveys", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list surveys")
		return
	}
	if surveys == nil {
		surveys = []models.Survey{}
	}

	respondJSON(w, http.StatusOK, surveys)
}

// surveyIDParam extracts and validates the surveyID URL parameter, writing
// a 400 response on failure.
func surveyIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "surveyID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid survey ID")
		return uuid.Nil, false
	}
	return id, true
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
