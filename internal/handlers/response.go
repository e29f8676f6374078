package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/models"
	"github.com/aquabrain57/procollekt-server/internal/services"
)

// ResponseHandler handles response submission, listing and offline sync
type ResponseHandler struct {
	responseSvc  *services.ResponseService
	analyticsSvc *services.AnalyticsService
	badgeSvc     *services.BadgeService
	logger       *zap.SugaredLogger
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(rs *services.ResponseService, as *services.AnalyticsService, bs *services.BadgeService, logger *zap.SugaredLogger) *ResponseHandler {
	return &ResponseHandler{responseSvc: rs, analyticsSvc: as, badgeSvc: bs, logger: logger}
}

// Submit handles POST /api/v1/surveys/{surveyID}/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	var input models.ResponseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(input.Answers) == 0 {
		respondError(w, http.StatusBadRequest, "Missing required field: answers")
		return
	}

	h.validateAttribution(input.Surveyor, r)

	record, err := h.responseSvc.Create(r.Context(), surveyID, &input)
	if err != nil {
		h.logger.Errorw("Failed to store response", "survey_id", surveyID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to store response")
		return
	}

	h.analyticsSvc.Invalidate(r.Context(), surveyID)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         record.ID,
		"created_at": record.CreatedAt,
	})
}

// SyncPush handles POST /api/v1/surveys/{surveyID}/responses/sync
// Clients flush their offline queue here; replays are safe because record
// IDs are client-generated and duplicates are skipped.
func (h *ResponseHandler) SyncPush(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	var req models.SyncPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Responses) == 0 {
		respondError(w, http.StatusBadRequest, "Empty sync batch")
		return
	}

	for i := range req.Responses {
		h.validateAttribution(req.Responses[i].Surveyor, r)
	}

	result, err := h.responseSvc.SyncPush(r.Context(), surveyID, req.Responses)
	if err != nil {
		h.logger.Errorw("Sync push failed", "survey_id", surveyID, "error", err)
		respondError(w, http.StatusInternalServerError, "Sync push failed")
		return
	}

	if result.Accepted > 0 {
		h.analyticsSvc.Invalidate(r.Context(), surveyID)
	}

	respondJSON(w, http.StatusOK, result)
}

// List handles GET /api/v1/surveys/{surveyID}/responses
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	records, err := h.responseSvc.ListBySurvey(r.Context(), surveyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch responses")
		return
	}
	if records == nil {
		records = []models.ResponseRecord{}
	}

	respondJSON(w, http.StatusOK, records)
}

// Count handles GET /api/v1/surveys/{surveyID}/responses/count
func (h *ResponseHandler) Count(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	count, err := h.responseSvc.Count(r.Context(), surveyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count responses")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// validateAttribution marks surveyor attribution as validated when the
// submission carries a badge token that checks out. Submissions without
// attribution stay anonymous; a bad token just leaves Validated false.
func (h *ResponseHandler) validateAttribution(attr *models.SurveyorAttribution, r *http.Request) {
	if attr == nil {
		return
	}
	attr.Validated = false

	token := r.Header.Get("X-Badge-Token")
	if token == "" {
		return
	}
	claims, err := h.badgeSvc.ValidateBadge(token)
	if err != nil {
		h.logger.Debugw("Badge token rejected", "error", err)
		return
	}
	if claims.SurveyorID == attr.SurveyorID && claims.BadgeID == attr.BadgeID {
		attr.Validated = true
	}
}
