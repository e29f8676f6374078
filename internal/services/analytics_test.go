package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/models"
)

// stubSource is an in-memory SnapshotSource for exercising the analytics
// service without a database.
type stubSource struct {
	survey    *models.Survey
	responses []models.ResponseRecord
}

func (s *stubSource) GetSurvey(_ context.Context, id uuid.UUID) (*models.Survey, error) {
	if s.survey == nil || s.survey.ID != id {
		return nil, fmt.Errorf("survey %s not found", id)
	}
	return s.survey, nil
}

func (s *stubSource) ListResponses(_ context.Context, _ uuid.UUID) ([]models.ResponseRecord, error) {
	return s.responses, nil
}

func testSurvey() *models.Survey {
	return &models.Survey{
		ID:    uuid.New(),
		Title: "Market Access",
		Fields: []models.FieldDefinition{
			{ID: "access", Label: "Road access", Type: models.FieldSingleChoice, Required: true,
				Options: []models.FieldOption{{Value: "good", Label: "Good"}, {Value: "poor", Label: "Poor"}}},
			{ID: "note", Label: "Instructions", Type: models.FieldNote},
		},
	}
}

func testResponses(survey *models.Survey, n int) []models.ResponseRecord {
	out := make([]models.ResponseRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.ResponseRecord{
			ID:        uuid.New(),
			SurveyID:  survey.ID,
			CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
			Answers:   map[string]models.AnswerValue{"access": models.ScalarAnswer("good")},
			Location:  &models.GeoPoint{Latitude: 6.13, Longitude: 1.22},
		})
	}
	return out
}

func TestDashboardSummary_NoCache(t *testing.T) {
	survey := testSurvey()
	src := &stubSource{survey: survey, responses: testResponses(survey, 12)}
	svc := NewAnalyticsService(src, nil, 0, zap.NewNop().Sugar())

	got, err := svc.DashboardSummary(context.Background(), survey.ID)
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}

	if got.Stats.Total != 12 {
		t.Errorf("total = %d, want 12", got.Stats.Total)
	}
	if got.Stats.CompletionRate != 100 {
		t.Errorf("completion = %v, want 100", got.Stats.CompletionRate)
	}
	// Note fields carry no answers and are excluded from aggregation.
	if len(got.Fields) != 1 {
		t.Fatalf("fields = %d, want 1", len(got.Fields))
	}
	if got.Fields[0].FieldID != "access" {
		t.Errorf("field = %q, want access", got.Fields[0].FieldID)
	}
	if len(got.Zones) != 1 || got.Zones[0].Count != 12 {
		t.Errorf("zones = %+v, want single zone of 12", got.Zones)
	}
	if got.Viewport == nil {
		t.Error("viewport should be set when responses carry locations")
	}
}

func TestDashboardSummary_UnknownSurvey(t *testing.T) {
	svc := NewAnalyticsService(&stubSource{}, nil, 0, zap.NewNop().Sugar())
	if _, err := svc.DashboardSummary(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown survey")
	}
}

func TestFieldSummary(t *testing.T) {
	survey := testSurvey()
	src := &stubSource{survey: survey, responses: testResponses(survey, 4)}
	svc := NewAnalyticsService(src, nil, 0, zap.NewNop().Sugar())

	fa, err := svc.FieldSummary(context.Background(), survey.ID, "access")
	if err != nil {
		t.Fatalf("FieldSummary: %v", err)
	}
	if fa.Answered != 4 {
		t.Errorf("answered = %d, want 4", fa.Answered)
	}
	if len(fa.Categories) != 1 || fa.Categories[0].Label != "Good" {
		t.Errorf("categories = %+v, want single Good bucket", fa.Categories)
	}

	if _, err := svc.FieldSummary(context.Background(), survey.ID, "missing"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestZones_ExplicitPrecision(t *testing.T) {
	survey := testSurvey()
	src := &stubSource{survey: survey, responses: testResponses(survey, 3)}
	svc := NewAnalyticsService(src, nil, 0, zap.NewNop().Sugar())

	zones, err := svc.Zones(context.Background(), survey.ID, analytics.ZonePrecisionReport, 10)
	if err != nil {
		t.Fatalf("Zones: %v", err)
	}
	if len(zones) != 1 || zones[0].Key != "6.13,1.22" {
		t.Errorf("zones = %+v, want one zone at 6.13,1.22", zones)
	}
}

func TestReportModel_UsesCustomization(t *testing.T) {
	survey := testSurvey()
	src := &stubSource{survey: survey, responses: testResponses(survey, 2)}
	svc := NewAnalyticsService(src, nil, 0, zap.NewNop().Sugar())

	m, err := svc.ReportModel(context.Background(), survey.ID, models.ReportCustomization{Title: "Q1 Field Report"})
	if err != nil {
		t.Fatalf("ReportModel: %v", err)
	}
	if m.Customization.Title != "Q1 Field Report" {
		t.Errorf("title = %q", m.Customization.Title)
	}
	if m.Stats.Total != 2 {
		t.Errorf("total = %d, want 2", m.Stats.Total)
	}
}
