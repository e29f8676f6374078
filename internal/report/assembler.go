// Package report assembles the export document model and renders it to the
// tabular formats the server produces itself (XLSX workbook, CSV). Richer
// renderers (PDF, slide decks) live in the clients and consume the same Model.
package report

import (
	"time"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/models"
)

// Model is the single structured object handed to document renderers. It is
// recomputed per export and never persisted.
type Model struct {
	Survey        models.Survey              `json:"survey"`
	Customization models.ReportCustomization `json:"customization"`
	GeneratedAt   time.Time                  `json:"generated_at"`
	Stats         analytics.GlobalStats      `json:"stats"`
	Fields        []analytics.FieldAnalytics `json:"fields"`
	Zones         []analytics.GeoZone        `json:"zones"`
	Insights      []analytics.Insight        `json:"insights"`
	Narrative     *models.Narrative          `json:"narrative,omitempty"`
}

// Assemble runs the aggregation pipeline over an immutable snapshot and
// packages the results with the caller-supplied customization. Missing
// inputs produce an empty-but-valid model; Assemble never fails.
func Assemble(survey models.Survey, responses []models.ResponseRecord, custom models.ReportCustomization) Model {
	if custom.Title == "" {
		custom.Title = survey.Title
	}

	m := Model{
		Survey:        survey,
		Customization: custom,
		GeneratedAt:   time.Now().UTC(),
		Stats:         analytics.AggregateGlobalStats(survey.Fields, responses),
		Zones:         analytics.AggregateZones(responses, analytics.ZonePrecisionReport, 0),
	}

	m.Fields = make([]analytics.FieldAnalytics, 0, len(survey.Fields))
	for _, f := range survey.Fields {
		if f.Type == models.FieldNote {
			// Display-only blocks collect no answers.
			continue
		}
		m.Fields = append(m.Fields, analytics.AggregateField(f, responses))
	}

	m.Insights = analytics.DeriveInsights(m.Stats, m.Fields, analytics.ReportInsights)
	return m
}
