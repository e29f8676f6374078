package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aquabrain57/procollekt-server/internal/middleware"
)

// callWithAuth wraps a 200-OK inner handler in the provided middleware,
// optionally setting an Authorization header, and returns the recorded
// response.
func callWithAuth(t *testing.T, mw func(http.Handler) http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"surveyor_id": "abc",
		"exp":         exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	rec := callWithAuth(t, middleware.RequireAuth("secret"), "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Authorization required") {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	token := signToken(t, "secret", time.Now().Add(time.Hour))
	rec := callWithAuth(t, middleware.RequireAuth("secret"), "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, "secret", time.Now().Add(-time.Hour))
	rec := callWithAuth(t, middleware.RequireAuth("secret"), "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other", time.Now().Add(time.Hour))
	rec := callWithAuth(t, middleware.RequireAuth("secret"), "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRateLimit_NilClientFailsOpen(t *testing.T) {
	rec := callWithAuth(t, middleware.RateLimit(nil, 1), "")

	if rec.Code != http.StatusOK {
		t.Errorf("nil redis client should pass requests through, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := callWithAuth(t, middleware.SecurityHeaders(), "")

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
