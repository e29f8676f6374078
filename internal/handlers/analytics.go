package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/services"
)

// AnalyticsHandler handles dashboard aggregation endpoints
type AnalyticsHandler struct {
	svc    *services.AnalyticsService
	logger *zap.SugaredLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(svc *services.AnalyticsService, logger *zap.SugaredLogger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// Dashboard handles GET /api/v1/surveys/{surveyID}/analytics
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.DashboardSummary(r.Context(), surveyID)
	if err != nil {
		h.logger.Errorw("Dashboard summary failed", "survey_id", surveyID, "error", err)
		respondError(w, http.StatusNotFound, "Survey not found")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Field handles GET /api/v1/surveys/{surveyID}/analytics/fields/{fieldID}
func (h *AnalyticsHandler) Field(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}
	fieldID := chi.URLParam(r, "fieldID")
	if fieldID == "" {
		respondError(w, http.StatusBadRequest, "Field ID required")
		return
	}

	fa, err := h.svc.FieldSummary(r.Context(), surveyID, fieldID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Field not found")
		return
	}

	respondJSON(w, http.StatusOK, fa)
}

// Zones handles GET /api/v1/surveys/{surveyID}/analytics/zones
// Query parameters: precision (decimal places, default dashboard precision)
// and top (cutoff, default 5, 0 keeps all).
func (h *AnalyticsHandler) Zones(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	precision := queryInt(r, "precision", analytics.ZonePrecisionDashboard)
	topN := queryInt(r, "top", 5)
	if precision < 0 || precision > 6 {
		respondError(w, http.StatusBadRequest, "Precision must be between 0 and 6")
		return
	}

	zones, err := h.svc.Zones(r.Context(), surveyID, precision, topN)
	if err != nil {
		respondError(w, http.StatusNotFound, "Survey not found")
		return
	}
	if zones == nil {
		zones = []analytics.GeoZone{}
	}

	respondJSON(w, http.StatusOK, zones)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return fallback
}
