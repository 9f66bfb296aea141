package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

func newTestTokens(t *testing.T) (*Tokens, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	tokens, err := NewTokens("test-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	return tokens, clock
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	tokens, clock := newTestTokens(t)

	raw, expires, err := tokens.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expires.Equal(clock.Now().Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expires)
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	clock.Advance(2 * time.Hour)
	if _, err := tokens.Parse(raw); err != ErrInvalidToken {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	t.Parallel()
	tokens, clock := newTestTokens(t)

	other, err := NewTokens("other-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	raw, _, err := other.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Parse(raw); err != ErrInvalidToken {
		t.Fatalf("expected wrong-key token to be rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "user-1", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := tokens.Parse(none); err != ErrInvalidToken {
		t.Fatalf("expected unsigned token to be rejected, got %v", err)
	}

	if _, err := NewTokens("", time.Hour, clock); err == nil {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	tokens, _ := newTestTokens(t)

	var seen string
	h := tokens.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}

	raw, _, err := tokens.Issue("user-7", "gina")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != "user-7" {
		t.Fatalf("expected pass-through for user-7, got status=%d user=%q", rec.Code, seen)
	}
}
