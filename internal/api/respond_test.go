package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("create meal: %w", service.ErrValidation), http.StatusBadRequest},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{service.ErrMissingWeight, http.StatusBadRequest},
		{fmt.Errorf("%w: food 9", service.ErrUnknownReference), http.StatusBadRequest},
		{service.ErrNoFieldsProvided, http.StatusBadRequest},
		{badRequestf("invalid id %q", "x"), http.StatusBadRequest},
		{fmt.Errorf("%w: meal 3", service.ErrNotFound), http.StatusNotFound},
		{service.ErrDuplicateUsername, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.ErrorLevel)
	s := &Server{log: zap.New(core)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	s.writeError(rec, req, errors.New("query users: database is locked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "locked") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if logs.FilterMessage("request failed").Len() != 1 {
		t.Fatalf("expected the failure to be logged")
	}
}

func TestWriteJSONReportsEncodeFailure(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.ErrorLevel)
	s := &Server{log: zap.New(core)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/meals/derive", nil)
	s.writeJSON(rec, req, http.StatusOK, map[string]float64{"calories": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if logs.FilterMessage("encode response").Len() != 1 {
		t.Fatalf("expected the encode failure to be logged")
	}

	rec = httptest.NewRecorder()
	s.writeJSON(rec, req, http.StatusCreated, map[string]int{"id": 7})
	if rec.Code != http.StatusCreated || strings.TrimSpace(rec.Body.String()) != `{"id":7}` {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
