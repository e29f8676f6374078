package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/models"
	"github.com/aquabrain57/procollekt-server/internal/report"
)

// SnapshotSource provides the immutable snapshot the aggregation core
// computes over. SurveyService and ResponseService satisfy it together via
// snapshotStore; tests substitute an in-memory implementation.
type SnapshotSource interface {
	GetSurvey(ctx context.Context, id uuid.UUID) (*models.Survey, error)
	ListResponses(ctx context.Context, surveyID uuid.UUID) ([]models.ResponseRecord, error)
}

// DashboardSummary is the aggregate bundle the dashboard renders.
type DashboardSummary struct {
	SurveyID   uuid.UUID                  `json:"survey_id"`
	Stats      analytics.GlobalStats      `json:"stats"`
	Fields     []analytics.FieldAnalytics `json:"fields"`
	Zones      []analytics.GeoZone        `json:"zones"`
	Viewport   *analytics.ViewportBounds  `json:"viewport,omitempty"`
	Insights   []analytics.Insight        `json:"insights"`
	ComputedAt time.Time                  `json:"computed_at"`
}

// AnalyticsService runs the aggregation pipeline over snapshots and caches
// dashboard summaries in Redis. The core itself is pure; all state lives in
// the snapshot source and the cache.
type AnalyticsService struct {
	source   SnapshotSource
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

// NewAnalyticsService creates a new analytics service. cache may be nil, in
// which case every call recomputes.
func NewAnalyticsService(source SnapshotSource, cache *redis.Client, cacheTTL time.Duration, logger *zap.SugaredLogger) *AnalyticsService {
	return &AnalyticsService{source: source, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func summaryCacheKey(surveyID uuid.UUID) string {
	return "procollekt:summary:" + surveyID.String()
}

// DashboardSummary returns the cached summary when fresh, otherwise
// recomputes it from a snapshot and stores it with the configured TTL.
func (s *AnalyticsService) DashboardSummary(ctx context.Context, surveyID uuid.UUID) (*DashboardSummary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, summaryCacheKey(surveyID)).Result(); err == nil {
			var cached DashboardSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}
	return s.Refresh(ctx, surveyID)
}

// Refresh recomputes the dashboard summary unconditionally and replaces the
// cached copy.
func (s *AnalyticsService) Refresh(ctx context.Context, surveyID uuid.UUID) (*DashboardSummary, error) {
	survey, responses, err := s.snapshot(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		SurveyID:   surveyID,
		Stats:      analytics.AggregateGlobalStats(survey.Fields, responses),
		Zones:      analytics.AggregateZones(responses, analytics.ZonePrecisionDashboard, 5),
		ComputedAt: time.Now().UTC(),
	}
	for _, f := range survey.Fields {
		if f.Type == models.FieldNote {
			continue
		}
		summary.Fields = append(summary.Fields, analytics.AggregateField(f, responses))
	}
	summary.Insights = analytics.DeriveInsights(summary.Stats, summary.Fields, analytics.DashboardInsights)
	if bounds, ok := analytics.Viewport(responses); ok {
		summary.Viewport = &bounds
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, summaryCacheKey(surveyID), raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warnw("Summary cache write failed", "survey_id", surveyID, "error", err)
			}
		}
	}

	return summary, nil
}

// Invalidate drops the cached summary after a new submission so the next
// dashboard read recomputes.
func (s *AnalyticsService) Invalidate(ctx context.Context, surveyID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey(surveyID)).Err(); err != nil {
		s.logger.Warnw("Summary cache invalidation failed", "survey_id", surveyID, "error", err)
	}
}

// FieldSummary aggregates a single field of a survey.
func (s *AnalyticsService) FieldSummary(ctx context.Context, surveyID uuid.UUID, fieldID string) (*analytics.FieldAnalytics, error) {
	survey, responses, err := s.snapshot(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	for _, f := range survey.Fields {
		if f.ID == fieldID {
			fa := analytics.AggregateField(f, responses)
			return &fa, nil
		}
	}
	return nil, fmt.Errorf("unknown field %q", fieldID)
}

// Zones aggregates geographic zones at an explicit precision and cutoff.
func (s *AnalyticsService) Zones(ctx context.Context, surveyID uuid.UUID, precision, topN int) ([]analytics.GeoZone, error) {
	_, responses, err := s.snapshot(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return analytics.AggregateZones(responses, precision, topN), nil
}

// ReportModel assembles the full export document model.
func (s *AnalyticsService) ReportModel(ctx context.Context, surveyID uuid.UUID, custom models.ReportCustomization) (report.Model, error) {
	survey, responses, err := s.snapshot(ctx, surveyID)
	if err != nil {
		return report.Model{}, err
	}
	return report.Assemble(*survey, responses, custom), nil
}

// Snapshot exposes the raw snapshot for exporters that stream responses.
func (s *AnalyticsService) Snapshot(ctx context.Context, surveyID uuid.UUID) (*models.Survey, []models.ResponseRecord, error) {
	return s.snapshot(ctx, surveyID)
}

func (s *AnalyticsService) snapshot(ctx context.Context, surveyID uuid.UUID) (*models.Survey, []models.ResponseRecord, error) {
	survey, err := s.source.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, fmt.Errorf("load survey: %w", err)
	}
	responses, err := s.source.ListResponses(ctx, surveyID)
	if err != nil {
		return nil, nil, fmt.Errorf("load responses: %w", err)
	}
	return survey, responses, nil
}

// snapshotStore adapts the pgx-backed services to SnapshotSource.
type snapshotStore struct {
	surveys   *SurveyService
	responses *ResponseService
}

// NewSnapshotSource bundles the survey and response services into the
// snapshot source consumed by AnalyticsService.
func NewSnapshotSource(surveys *SurveyService, responses *ResponseService) SnapshotSource {
	return &snapshotStore{surveys: surveys, responses: responses}
}

func (s *snapshotStore) GetSurvey(ctx context.Context, id uuid.UUID) (*models.Survey, error) {
	return s.surveys.GetByID(ctx, id)
}

func (s *snapshotStore) ListResponses(ctx context.Context, surveyID uuid.UUID) ([]models.ResponseRecord, error) {
	return s.responses.ListBySurvey(ctx, surveyID)
}
