package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

// BadgeService manages surveyor accounts and the signed badge tokens their
// QR badges carry. A badge token is a short-lived JWT binding surveyor
// identity and badge ID; scanning a badge validates the token offline-first
// clients attached to their submissions.
type BadgeService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
	secret []byte
	ttl    time.Duration
}

// NewBadgeService creates a new badge service
func NewBadgeService(db *pgxpool.Pool, secret string, ttl time.Duration, logger *zap.SugaredLogger) *BadgeService {
	return &BadgeService{db: db, secret: []byte(secret), ttl: ttl, logger: logger}
}

// Register creates a surveyor account with a bcrypt password hash and a
// freshly assigned badge ID.
func (s *BadgeService) Register(ctx context.Context, name, username, password string) (*models.Surveyor, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	surveyor := &models.Surveyor{
		ID:           uuid.New(),
		Name:         name,
		Username:     username,
		PasswordHash: string(hash),
		BadgeID:      "PCK-" + uuid.NewString()[:8],
		CreatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO surveyors (id, name, username, password_hash, badge_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.Exec(ctx, query,
		surveyor.ID, surveyor.Name, surveyor.Username, surveyor.PasswordHash, surveyor.BadgeID, surveyor.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert surveyor: %w", err)
	}

	s.logger.Infow("Surveyor registered", "id", surveyor.ID, "badge_id", surveyor.BadgeID)
	return surveyor, nil
}

// Authenticate checks credentials and issues a badge token on success
func (s *BadgeService) Authenticate(ctx context.Context, username, password string) (*models.Surveyor, string, error) {
	query := `SELECT id, name, username, password_hash, badge_id, created_at FROM surveyors WHERE username = $1`

	var surveyor models.Surveyor
	row := s.db.QueryRow(ctx, query, username)
	if err := row.Scan(&surveyor.ID, &surveyor.Name, &surveyor.Username,
		&surveyor.PasswordHash, &surveyor.BadgeID, &surveyor.CreatedAt); err != nil {
		return nil, "", fmt.Errorf("surveyor not found: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(surveyor.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	token, err := s.IssueBadgeToken(&surveyor)
	if err != nil {
		return nil, "", err
	}
	return &surveyor, token, nil
}

// IssueBadgeToken signs a badge token for a surveyor
func (s *BadgeService) IssueBadgeToken(surveyor *models.Surveyor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"surveyor_id": surveyor.ID.String(),
		"badge_id":    surveyor.BadgeID,
		"name":        surveyor.Name,
		"iat":         now.Unix(),
		"exp":         now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign badge token: %w", err)
	}
	return signed, nil
}

// ValidateBadge parses a scanned badge token and returns the embedded
// surveyor identity. Expired or tampered tokens fail validation.
func (s *BadgeService) ValidateBadge(tokenStr string) (*models.BadgeClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid badge token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid badge claims")
	}

	badge := &models.BadgeClaims{}
	if v, ok := claims["surveyor_id"].(string); ok {
		badge.SurveyorID = v
	}
	if v, ok := claims["badge_id"].(string); ok {
		badge.BadgeID = v
	}
	if v, ok := claims["name"].(string); ok {
		badge.Name = v
	}
	if badge.SurveyorID == "" || badge.BadgeID == "" {
		return nil, fmt.Errorf("badge token missing identity claims")
	}

	return badge, nil
}
