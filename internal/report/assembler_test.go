package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/models"
)

func sampleSurvey() models.Survey {
	return models.Survey{
		ID:    uuid.New(),
		Title: "Market Access Survey",
		Fields: []models.FieldDefinition{
			{
				ID:       "satisfaction",
				Label:    "Satisfaction",
				Type:     models.FieldSingleChoice,
				Required: true,
				Options: []models.FieldOption{
					{Value: "low", Label: "Low"},
					{Value: "high", Label: "High"},
				},
			},
			{ID: "age", Label: "Age", Type: models.FieldNumber},
			{ID: "intro", Label: "Intro", Type: models.FieldNote},
		},
	}
}

func sampleResponses(survey models.Survey) []models.ResponseRecord {
	ts := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mk := func(sat string, age float64) models.ResponseRecord {
		return models.ResponseRecord{
			ID:        uuid.New(),
			SurveyID:  survey.ID,
			CreatedAt: ts,
			Answers: map[string]models.AnswerValue{
				"satisfaction": models.ScalarAnswer(sat),
				"age":          models.NumberAnswer(age),
			},
			Location:   &models.GeoPoint{Latitude: 6.1375, Longitude: 1.2255},
			SyncStatus: models.SyncSynced,
		}
	}
	return []models.ResponseRecord{mk("high", 31), mk("high", 25), mk("low", 40)}
}

func TestAssemble_EmptyInputsProduceValidModel(t *testing.T) {
	m := Assemble(models.Survey{}, nil, models.ReportCustomization{})

	if m.Stats.Total != 0 {
		t.Errorf("expected zero totals, got %d", m.Stats.Total)
	}
	if len(m.Fields) != 0 || len(m.Zones) != 0 || len(m.Insights) != 0 {
		t.Errorf("expected empty aggregates, got %+v", m)
	}
}

func TestAssemble_ComposesPipeline(t *testing.T) {
	survey := sampleSurvey()
	m := Assemble(survey, sampleResponses(survey), models.ReportCustomization{Author: "Field Ops"})

	if m.Customization.Title != survey.Title {
		t.Errorf("empty title should default to survey title, got %q", m.Customization.Title)
	}
	// Note fields collect no answers and are excluded from field summaries.
	if len(m.Fields) != 2 {
		t.Fatalf("expected 2 field summaries, got %d", len(m.Fields))
	}
	if m.Fields[0].Category != analytics.CategoryCategorical {
		t.Errorf("first field should be categorical, got %s", m.Fields[0].Category)
	}
	if m.Stats.Total != 3 || m.Stats.LocationRate != 100 {
		t.Errorf("stats: %+v", m.Stats)
	}
	if len(m.Zones) != 1 || m.Zones[0].Count != 3 {
		t.Errorf("zones: %+v", m.Zones)
	}
	// 67% "High" share clears the report threshold of 40.
	found := false
	for _, in := range m.Insights {
		if in.Severity == analytics.SeverityInfo {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a dominant-option insight, got %+v", m.Insights)
	}
}

func TestWriteXLSX(t *testing.T) {
	survey := sampleSurvey()
	m := Assemble(survey, sampleResponses(survey), models.ReportCustomization{
		Title: "Quarterly Report",
		Notes: "Pilot districts only",
	})

	var buf bytes.Buffer
	if err := WriteXLSX(m, &buf); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Overview", "A1")
	if err != nil {
		t.Fatalf("read title cell: %v", err)
	}
	if title != "Quarterly Report" {
		t.Errorf("overview title: got %q", title)
	}

	notes, err := f.GetCellValue("Overview", "B6")
	if err != nil {
		t.Fatalf("read notes cell: %v", err)
	}
	if notes != "Pilot districts only" {
		t.Errorf("overview notes: got %q", notes)
	}

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Errorf("expected Overview/Fields/Zones sheets, got %v", sheets)
	}
}

func TestWriteCSV(t *testing.T) {
	survey := sampleSurvey()
	responses := sampleResponses(survey)

	var buf bytes.Buffer
	if err := WriteCSV(survey, responses, &buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != len(responses)+1 {
		t.Fatalf("expected header + %d rows, got %d", len(responses), len(rows))
	}
	// 7 metadata columns + 2 answer columns (note field skipped).
	if len(rows[0]) != 9 {
		t.Errorf("header width: got %d, want 9: %v", len(rows[0]), rows[0])
	}
	// Answers render as normalized labels.
	if rows[1][7] != "High" {
		t.Errorf("expected normalized label High, got %q", rows[1][7])
	}
}
