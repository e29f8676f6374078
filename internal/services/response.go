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

// ResponseService handles response intake and retrieval. Responses are
// append-only: created once at submission and never mutated afterwards.
type ResponseService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewResponseService creates a new response service
func NewResponseService(db *pgxpool.Pool, logger *zap.SugaredLogger) *ResponseService {
	return &ResponseService{db: db, logger: logger}
}

// Create stores a single online submission with a server-assigned ID and
// timestamp.
func (s *ResponseService) Create(ctx context.Context, surveyID uuid.UUID, input *models.ResponseInput) (*models.ResponseRecord, error) {
	record := &models.ResponseRecord{
		ID:         uuid.New(),
		SurveyID:   surveyID,
		CreatedAt:  time.Now().UTC(),
		Answers:    input.Answers,
		Location:   input.Location,
		Surveyor:   input.Surveyor,
		SyncStatus: models.SyncSynced,
	}

	if err := s.insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Infow("Response submitted",
		"id", record.ID,
		"survey_id", surveyID,
		"answers", len(record.Answers),
		"geolocated", record.Location != nil,
	)
	return record, nil
}

// SyncPush stores a batch of offline-captured responses. Record IDs are
// client-generated, so a replayed batch after a dropped connection inserts
// nothing twice: duplicates are counted and reported back, never updated.
func (s *ResponseService) SyncPush(ctx context.Context, surveyID uuid.UUID, pending []models.PendingResponse) (*models.SyncPushResult, error) {
	result := &models.SyncPushResult{}

	for _, p := range pending {
		if p.RecordID == uuid.Nil {
			result.RejectedIDs = append(result.RejectedIDs, p.RecordID)
			continue
		}
		capturedAt := p.CapturedAt
		if capturedAt.IsZero() {
			capturedAt = time.Now().UTC()
		}

		record := &models.ResponseRecord{
			ID:         p.RecordID,
			SurveyID:   surveyID,
			CreatedAt:  capturedAt.UTC(),
			Answers:    p.Answers,
			Location:   p.Location,
			Surveyor:   p.Surveyor,
			SyncStatus: models.SyncSynced,
		}

		inserted, err := s.insertIfAbsent(ctx, record)
		if err != nil {
			return nil, err
		}
		if inserted {
			result.Accepted++
		} else {
			result.Duplicates++
		}
	}

	s.logger.Infow("Sync push processed",
		"survey_id", surveyID,
		"accepted", result.Accepted,
		"duplicates", result.Duplicates,
		"rejected", len(result.RejectedIDs),
	)
	return result, nil
}

// ListBySurvey returns all responses of a survey ordered by creation time.
func (s *ResponseService) ListBySurvey(ctx context.Context, surveyID uuid.UUID) ([]models.ResponseRecord, error) {
	query := `
		SELECT id, survey_id, created_at, answers, latitude, longitude, surveyor, sync_status
		FROM responses
		WHERE survey_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ResponseRecord
	for rows.Next() {
		var r models.ResponseRecord
		var answersJSON, surveyorJSON []byte
		var lat, lng *float64
		if err := rows.Scan(&r.ID, &r.SurveyID, &r.CreatedAt, &answersJSON, &lat, &lng, &surveyorJSON, &r.SyncStatus); err != nil {
			continue
		}
		if err := json.Unmarshal(answersJSON, &r.Answers); err != nil {
			s.logger.Warnw("Skipping response with corrupt answers", "id", r.ID, "error", err)
			continue
		}
		if lat != nil && lng != nil {
			r.Location = &models.GeoPoint{Latitude: *lat, Longitude: *lng}
		}
		if len(surveyorJSON) > 0 {
			var attr models.SurveyorAttribution
			if err := json.Unmarshal(surveyorJSON, &attr); err == nil {
				r.Surveyor = &attr
			}
		}
		records = append(records, r)
	}

	return records, nil
}

// Count returns the number of responses for a survey
func (s *ResponseService) Count(ctx context.Context, surveyID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM responses WHERE survey_id = $1", surveyID).Scan(&count)
	return count, err
}

func (s *ResponseService) insert(ctx context.Context, r *models.ResponseRecord) error {
	query, args, err := responseInsert(r, false)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *ResponseService) insertIfAbsent(ctx context.Context, r *models.ResponseRecord) (bool, error) {
	query, args, err := responseInsert(r, true)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert response: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func responseInsert(r *models.ResponseRecord, skipDuplicates bool) (string, []interface{}, error) {
	answersJSON, err := json.Marshal(r.Answers)
	if err != nil {
		return "", nil, fmt.Errorf("encode answers: %w", err)
	}
	var surveyorJSON []byte
	if r.Surveyor != nil {
		if surveyorJSON, err = json.Marshal(r.Surveyor); err != nil {
			return "", nil, fmt.Errorf("encode surveyor: %w", err)
		}
	}
	var lat, lng *float64
	if r.Location != nil {
		lat, lng = &r.Location.Latitude, &r.Location.Longitude
	}

	query := `
		INSERT INTO responses (id, survey_id, created_at, answers, latitude, longitude, surveyor, sync_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if skipDuplicates {
		query += ` ON CONFLICT (id) DO NOTHING`
	}

	args := []interface{}{r.ID, r.SurveyID, r.CreatedAt, answersJSON, lat, lng, surveyorJSON, r.SyncStatus}
	return query, args, nil
}
