// Package services contains business logic layers.
// Services are called by handlers and interact with the database.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

// SurveyService handles survey authoring and lookup. Field definitions are
// stored as a JSONB document on the survey row; they are immutable once
// responses exist, so there is no per-field table to keep in sync.
type SurveyService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewSurveyService creates a new survey service
func NewSurveyService(db *pgxpool.Pool, logger *zap.SugaredLogger) *SurveyService {
	return &SurveyService{db: db, logger: logger}
}

// Create stores a new survey with its field definitions
func (s *SurveyService) Create(ctx context.Context, input *models.SurveyInput) (*models.Survey, error) {
	fieldsJSON, err := json.Marshal(input.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	survey := &models.Survey{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Fields:      input.Fields,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO surveys (id, title, description, fields, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.Exec(ctx, query,
		survey.ID, survey.Title, survey.Description, fieldsJSON, survey.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert survey: %w", err)
	}

	s.logger.Infow("Survey created",
		"id", survey.ID,
		"fields", len(survey.Fields),
	)
	return survey, nil
}

// GetByID returns one survey with its field definitions
func (s *SurveyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Survey, error) {
	query := `SELECT id, title, description, fields, created_at FROM surveys WHERE id = $1`

	var survey models.Survey
	var fieldsJSON []byte
	row := s.db.QueryRow(ctx, query, id)
	if err := row.Scan(&survey.ID, &survey.Title, &survey.Description, &fieldsJSON, &survey.CreatedAt); err != nil {
		return nil, fmt.Errorf("survey not found: %w", err)
	}
	if err := json.Unmarshal(fieldsJSON, &survey.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}

	return &survey, nil
}

// List returns all surveys, newest first
func (s *SurveyService) List(ctx context.Context) ([]models.Survey, error) {
	query := `SELECT id, title, description, fields, created_at FROM surveys ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var surveys []models.Survey
	for rows.Next() {
		var survey models.Survey
		var fieldsJSON []byte
		if err := rows.Scan(&survey.ID, &survey.Title, &survey.Description, &fieldsJSON, &survey.CreatedAt); err != nil {
			continue
		}
		if err := json.Unmarshal(fieldsJSON, &survey.Fields); err != nil {
			s.logger.Warnw("Skipping survey with corrupt field definitions", "id", survey.ID, "error", err)
			continue
		}
		surveys = append(surveys, survey)
	}

	return surveys, nil
}
