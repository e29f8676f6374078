package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/aquabrain57/procollekt-server/internal/services"
)

// AuthHandler handles surveyor accounts and badge validation
type AuthHandler struct {
	badgeSvc *services.BadgeService
	logger   *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(bs *services.BadgeService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{badgeSvc: bs, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validateBadgeRequest struct {
	Token string `json:"token"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Username == "" || len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Name, username and a password of at least 8 characters are required")
		return
	}

	surveyor, err := h.badgeSvc.Register(r.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		h.logger.Errorw("Surveyor registration failed", "username", req.Username, "error", err)
		respondError(w, http.StatusConflict, "Registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, surveyor)
}

// Login handles POST /api/v1/auth/login
// Issues the badge token the mobile client embeds in the surveyor's QR badge.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	surveyor, token, err := h.badgeSvc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"surveyor": surveyor,
	})
}

// ValidateBadge handles POST /api/v1/auth/validate-badge
// Checks a scanned badge token and returns the surveyor identity it carries.
func (h *AuthHandler) ValidateBadge(w http.ResponseWriter, r *http.Request) {
	var req validateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "Badge token required")
		return
	}

	claims, err := h.badgeSvc.ValidateBadge(req.Token)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"valid": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"surveyor": claims,
	})
}
