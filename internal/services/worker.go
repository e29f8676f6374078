package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CacheWarmWorker periodically recomputes dashboard summaries so the first
// dashboard hit after a quiet period is served from cache instead of paying
// for a full aggregation pass.
type CacheWarmWorker struct {
	analyticsSvc *AnalyticsService
	surveySvc    *SurveyService
	logger       *zap.SugaredLogger
}

// NewCacheWarmWorker creates a new background cache warm worker
func NewCacheWarmWorker(as *AnalyticsService, ss *SurveyService, logger *zap.SugaredLogger) *CacheWarmWorker {
	return &CacheWarmWorker{analyticsSvc: as, surveySvc: ss, logger: logger}
}

// Start begins the periodic warm loop
func (w *CacheWarmWorker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial warm
	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Cache warm worker stopped")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *CacheWarmWorker) warm(ctx context.Context) {
	surveys, err := w.surveySvc.List(ctx)
	if err != nil {
		w.logger.Warnw("Cache warm skipped, survey list failed", "error", err)
		return
	}

	warmed := 0
	for _, survey := range surveys {
		if _, err := w.analyticsSvc.Refresh(ctx, survey.ID); err != nil {
			w.logger.Warnw("Summary refresh failed", "survey_id", survey.ID, "error", err)
			continue
		}
		warmed++
	}

	w.logger.Infow("Cache warm complete", "surveys", warmed)
}
