package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

func testBadgeService(ttl time.Duration) *BadgeService {
	return NewBadgeService(nil, "test-secret", ttl, zap.NewNop().Sugar())
}

func TestBadgeTokenRoundTrip(t *testing.T) {
	svc := testBadgeService(time.Hour)
	surveyor := &models.Surveyor{
		ID:      uuid.New(),
		Name:    "Ama Mensah",
		BadgeID: "PCK-1a2b3c4d",
	}

	token, err := svc.IssueBadgeToken(surveyor)
	if err != nil {
		t.Fatalf("IssueBadgeToken: %v", err)
	}

	claims, err := svc.ValidateBadge(token)
	if err != nil {
		t.Fatalf("ValidateBadge: %v", err)
	}
	if claims.SurveyorID != surveyor.ID.String() {
		t.Errorf("surveyor_id = %q, want %q", claims.SurveyorID, surveyor.ID)
	}
	if claims.BadgeID != surveyor.BadgeID {
		t.Errorf("badge_id = %q, want %q", claims.BadgeID, surveyor.BadgeID)
	}
	if claims.Name != surveyor.Name {
		t.Errorf("name = %q, want %q", claims.Name, surveyor.Name)
	}
}

func TestValidateBadge_WrongSecret(t *testing.T) {
	issuer := testBadgeService(time.Hour)
	token, err := issuer.IssueBadgeToken(&models.Surveyor{ID: uuid.New(), BadgeID: "PCK-deadbeef"})
	if err != nil {
		t.Fatalf("IssueBadgeToken: %v", err)
	}

	verifier := NewBadgeService(nil, "other-secret", time.Hour, zap.NewNop().Sugar())
	if _, err := verifier.ValidateBadge(token); err == nil {
		t.Error("token signed with a different secret must not validate")
	}
}

func TestValidateBadge_Expired(t *testing.T) {
	svc := testBadgeService(-time.Minute)
	token, err := svc.IssueBadgeToken(&models.Surveyor{ID: uuid.New(), BadgeID: "PCK-deadbeef"})
	if err != nil {
		t.Fatalf("IssueBadgeToken: %v", err)
	}

	if _, err := svc.ValidateBadge(token); err == nil {
		t.Error("expired token must not validate")
	}
}

func TestValidateBadge_Garbage(t *testing.T) {
	svc := testBadgeService(time.Hour)
	if _, err := svc.ValidateBadge("not-a-token"); err == nil {
		t.Error("garbage input must not validate")
	}
}
