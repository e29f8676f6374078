package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/models"
	"github.com/aquabrain57/procollekt-server/internal/report"
	"github.com/aquabrain57/procollekt-server/internal/services"
)

// ExportHandler produces report models and the tabular export formats
type ExportHandler struct {
	analyticsSvc  *services.AnalyticsService
	summarizerSvc *services.SummarizerService
	logger        *zap.SugaredLogger
}

// NewExportHandler creates a new export handler
func NewExportHandler(as *services.AnalyticsService, ss *services.SummarizerService, logger *zap.SugaredLogger) *ExportHandler {
	return &ExportHandler{analyticsSvc: as, summarizerSvc: ss, logger: logger}
}

// customizationFromQuery reads the presentation fields off the query string.
func customizationFromQuery(r *http.Request) models.ReportCustomization {
	q := r.URL.Query()
	return models.ReportCustomization{
		Title:        q.Get("title"),
		Subtitle:     q.Get("subtitle"),
		Organization: q.Get("organization"),
		Author:       q.Get("author"),
		Notes:        q.Get("notes"),
	}
}

// ReportModel handles GET /api/v1/surveys/{surveyID}/export/report
// Returns the assembled document model as JSON for client-side renderers
// (PDF, slides). Narrative sections are included when the summarizer is
// configured; its failure degrades to a model without narrative.
func (h *ExportHandler) ReportModel(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	model, err := h.analyticsSvc.ReportModel(r.Context(), surveyID, customizationFromQuery(r))
	if err != nil {
		respondError(w, http.StatusNotFound, "Survey not found")
		return
	}

	if narrative, err := h.summarizerSvc.Narrative(r.Context(), &model.Survey, model.Stats, model.Fields); err == nil {
		model.Narrative = narrative
	}

	respondJSON(w, http.StatusOK, model)
}

// XLSX handles GET /api/v1/surveys/{surveyID}/export/xlsx
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	model, err := h.analyticsSvc.ReportModel(r.Context(), surveyID, customizationFromQuery(r))
	if err != nil {
		respondError(w, http.StatusNotFound, "Survey not found")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, surveyID))

	if err := report.WriteXLSX(model, w); err != nil {
		h.logger.Errorw("XLSX export failed", "survey_id", surveyID, "error", err)
	}
}

// CSV handles GET /api/v1/surveys/{surveyID}/export/csv
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(w, r)
	if !ok {
		return
	}

	survey, responses, err := h.analyticsSvc.Snapshot(r.Context(), surveyID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Survey not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, surveyID))

	if err := report.WriteCSV(*survey, responses, w); err != nil {
		h.logger.Errorw("CSV export failed", "survey_id", surveyID, "error", err)
	}
}
