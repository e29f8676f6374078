package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/analytics"
	"github.com/aquabrain57/procollekt-server/internal/models"
)

// SummarizerService calls the hosted narrative endpoint that turns the
// quantitative aggregates into free-text report sections. The endpoint is an
// opaque collaborator: the service only ships aggregates out and strings
// back, and a missing or failing endpoint degrades to a nil narrative so
// report generation never blocks on it.
type SummarizerService struct {
	url    string
	client *http.Client
	logger *zap.SugaredLogger
}

// NewSummarizerService creates a new summarizer client. An empty URL
// disables narrative generation.
func NewSummarizerService(url string, logger *zap.SugaredLogger) *SummarizerService {
	return &SummarizerService{
		url:    url,
		client: &http.Client{Timeout: 20 * time.Second},
		logger: logger,
	}
}

// summaryRequest is the endpoint's input contract.
type summaryRequest struct {
	SurveyTitle string                     `json:"survey_title"`
	Fields      []models.FieldDefinition   `json:"fields"`
	Stats       analytics.GlobalStats      `json:"stats"`
	Analytics   []analytics.FieldAnalytics `json:"analytics"`
}

// Narrative requests free-text sections for a report. Transient failures are
// retried with exponential backoff; client errors are not retried.
func (s *SummarizerService) Narrative(ctx context.Context, survey *models.Survey, stats analytics.GlobalStats, fields []analytics.FieldAnalytics) (*models.Narrative, error) {
	if s.url == "" {
		return nil, nil
	}

	payload, err := json.Marshal(summaryRequest{
		SurveyTitle: survey.Title,
		Fields:      survey.Fields,
		Stats:       stats,
		Analytics:   fields,
	})
	if err != nil {
		return nil, fmt.Errorf("encode summary request: %w", err)
	}

	var narrative models.Narrative
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("summarizer rejected request: %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("summarizer returned %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(&narrative)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		s.logger.Warnw("Narrative generation failed", "error", err)
		return nil, err
	}

	return &narrative, nil
}
