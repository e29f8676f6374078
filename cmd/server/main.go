// Package main is the entry point for the ProCollekt backend server.
// It provides a REST API for survey management, offline-capable response
// collection, analytics, and report export.
//
// Architecture:
//   - Surveys and responses live in PostgreSQL (field schemas as JSONB)
//   - Offline clients capture responses locally and push batches through
//     the sync endpoint; duplicates are detected by client record ID
//   - Dashboard summaries are cached in Redis and warmed by a background
//     worker so field coordinators see fresh numbers without recompute
//   - Surveyor badges are JWT tokens tied to registered surveyor accounts
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquabrain57/procollekt-server/internal/config"
	"github.com/aquabrain57/procollekt-server/internal/database"
	"github.com/aquabrain57/procollekt-server/internal/handlers"
	"github.com/aquabrain57/procollekt-server/internal/middleware"
	"github.com/aquabrain57/procollekt-server/internal/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting ProCollekt Server",
		"port", cfg.Port,
		"env", cfg.Environment,
	)

	// Initialize database connection pool
	db, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the server still works, just without
	// cross-replica rate limiting or summary caching
	cache, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to redis: %v", err)
	}
	if cache != nil {
		defer cache.Close()
	}

	// Initialize services
	surveySvc := services.NewSurveyService(db, sugar)
	responseSvc := services.NewResponseService(db, sugar)
	analyticsSvc := services.NewAnalyticsService(
		services.NewSnapshotSource(surveySvc, responseSvc),
		cache,
		time.Duration(cfg.SummaryCacheTTL)*time.Minute,
		sugar,
	)
	badgeSvc := services.NewBadgeService(db, cfg.JWTSecret, time.Duration(cfg.BadgeTTLHours)*time.Hour, sugar)
	summarizerSvc := services.NewSummarizerService(cfg.SummarizerURL, sugar)

	// Start background cache warmer (recomputes dashboard summaries)
	if cfg.CacheWarmInterval > 0 && cache != nil {
		warmWorker := services.NewCacheWarmWorker(analyticsSvc, surveySvc, sugar)
		go warmWorker.Start(context.Background(), time.Duration(cfg.CacheWarmInterval)*time.Minute)
	}

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(surveySvc, sugar)
	responseHandler := handlers.NewResponseHandler(responseSvc, analyticsSvc, badgeSvc, sugar)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, sugar)
	exportHandler := handlers.NewExportHandler(analyticsSvc, summarizerSvc, sugar)
	authHandler := handlers.NewAuthHandler(badgeSvc, sugar)
	healthHandler := handlers.NewHealthHandler(db, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Badge-Token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(cache, cfg.RateLimitRPM))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Surveyor accounts and badge tokens
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/validate-badge", authHandler.ValidateBadge)
		})

		// Survey definitions
		r.Route("/surveys", func(r chi.Router) {
			r.Get("/", surveyHandler.List)
			r.Get("/{surveyID}", surveyHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(cfg.JWTSecret))
				r.Post("/", surveyHandler.Create)
			})

			// Response collection (public: field devices submit without
			// a badge, attribution is validated when a badge is present)
			r.Route("/{surveyID}/responses", func(r chi.Router) {
				r.Post("/", responseHandler.Submit)
				r.Post("/sync", responseHandler.SyncPush)
				r.Get("/count", responseHandler.Count)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth(cfg.JWTSecret))
					r.Get("/", responseHandler.List)
				})
			})

			// Analytics (dashboard summaries, per-field breakdowns, zones)
			r.Route("/{surveyID}/analytics", func(r chi.Router) {
				r.Use(middleware.RequireAuth(cfg.JWTSecret))
				r.Get("/", analyticsHandler.Dashboard)
				r.Get("/fields/{fieldID}", analyticsHandler.Field)
				r.Get("/zones", analyticsHandler.Zones)
			})

			// Report export
			r.Route("/{surveyID}/export", func(r chi.Router) {
				r.Use(middleware.RequireAuth(cfg.JWTSecret))
				r.Get("/report", exportHandler.ReportModel)
				r.Get("/xlsx", exportHandler.XLSX)
				r.Get("/csv", exportHandler.CSV)
			})
		})
	})

	// Serve static files (frontend build)
	r.Handle("/*", http.FileServer(http.Dir("./static")))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
