package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/api"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/auth"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/db"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

type testEnv struct {
	handler http.Handler
	clock   *clockwork.FakeClock
	logs    *observer.ObservedLogs
	foodID  int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sqldb, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "pulsecare.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	foodID, err := service.AddFood(context.Background(), sqldb, service.AddFoodInput{
		Name: "Banana", Calories: 89, Protein: 1.1, Carbs: 22.8, Fat: 0.3,
	})
	if err != nil {
		t.Fatalf("add food: %v", err)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	tokens, err := auth.NewTokens("test-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	core, logs := observer.New(zapcore.InfoLevel)
	srv := api.NewServer(sqldb, tokens, clock, zap.New(core), api.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testEnv{handler: srv.Handler(), clock: clock, logs: logs, foodID: foodID}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decode(t, rec, &out)
	if out.Token == "" || out.User.Username != username {
		t.Fatalf("unexpected register response: %s", rec.Body.String())
	}
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d body %s", want, rec.Code, rec.Body.String())
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.register(t, "ana")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ana", "email": "other@example.com", "password": "secret123",
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bo", "email": "bo@example.com", "password": "123",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "password": "wrong-pass"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "nobody", "password": "secret123"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "password": "secret123"})
	expectStatus(t, rec, http.StatusOK)
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)

	expectStatus(t, env.do(t, http.MethodGet, "/api/profile", out.Token, nil), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodGet, "/api/profile", "", nil), http.StatusUnauthorized)
	expectStatus(t, env.do(t, http.MethodGet, "/api/profile", "not-a-token", nil), http.StatusUnauthorized)

	env.clock.Advance(2 * time.Hour)
	expectStatus(t, env.do(t, http.MethodGet, "/api/profile", out.Token, nil), http.StatusUnauthorized)
}

func TestMealRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.register(t, "ana")

	rec := env.do(t, http.MethodGet, "/api/meals/search-foods?q=ban", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var foods []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decode(t, rec, &foods)
	if len(foods) != 1 || foods[0].Name != "Banana" {
		t.Fatalf("unexpected search result: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/meals/derive?food_id=999&grams=100", token, nil)
	expectStatus(t, rec, http.StatusBadRequest)
	rec = env.do(t, http.MethodGet, "/api/meals/derive?food_id=1&grams=abc", token, nil)
	expectStatus(t, rec, http.StatusBadRequest)
	for _, grams := range []string{"NaN", "Inf", "-Inf"} {
		rec = env.do(t, http.MethodGet, "/api/meals/derive?food_id=1&grams="+grams, token, nil)
		expectStatus(t, rec, http.StatusBadRequest)
	}

	rec = env.do(t, http.MethodPost, "/api/meals/add-meal", token, map[string]any{
		"food_id": env.foodID, "grams": 150, "meal_date": "2024-03-01", "meal_type": "breakfast",
	})
	expectStatus(t, rec, http.StatusCreated)
	var entry struct {
		ID       int64   `json:"id"`
		Calories float64 `json:"calories"`
		MealType string  `json:"meal_type"`
	}
	decode(t, rec, &entry)
	if !almostEqual(entry.Calories, 133.5) || entry.MealType != "Breakfast" {
		t.Fatalf("unexpected meal entry: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/meals/add-meal", token, map[string]any{
		"food_id": env.foodID, "grams": 0, "meal_type": "Lunch",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	path := "/api/meals/" + itoa(entry.ID)
	expectStatus(t, env.do(t, http.MethodPut, path, token, map[string]any{}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPut, "/api/meals/9999", token, map[string]any{"grams": 10}), http.StatusNotFound)

	rec = env.do(t, http.MethodPut, path, token, map[string]any{"grams": 200})
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &entry)
	if !almostEqual(entry.Calories, 178) {
		t.Fatalf("expected recomputed calories 178, got %v", entry.Calories)
	}

	rec = env.do(t, http.MethodGet, "/api/meals/daily-summary", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var summary struct {
		Date   string `json:"date"`
		Totals struct {
			Calories float64 `json:"calories"`
		} `json:"totals"`
		Groups []struct {
			MealType string `json:"meal_type"`
		} `json:"groups"`
	}
	decode(t, rec, &summary)
	if summary.Date != "2024-03-01" || !almostEqual(summary.Totals.Calories, 178) || len(summary.Groups) != 1 {
		t.Fatalf("unexpected summary: %s", rec.Body.String())
	}

	other := env.register(t, "bo")
	expectStatus(t, env.do(t, http.MethodDelete, path, other, nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodDelete, path, token, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodDelete, path, token, nil), http.StatusNotFound)

	expectStatus(t, env.do(t, http.MethodGet, "/api/meals/daily-summary?date=2024-3-1", token, nil), http.StatusBadRequest)
}

func TestActivityRoutesUseProfileWeight(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.register(t, "ana")

	rec := env.do(t, http.MethodGet, "/api/activities/types", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var types []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decode(t, rec, &types)
	var running int64
	for _, at := range types {
		if at.Name == "Running" {
			running = at.ID
		}
	}
	if running == 0 {
		t.Fatalf("running not in activity types: %s", rec.Body.String())
	}

	derivePath := "/api/activities/derive?activity_id=" + itoa(running) + "&minutes=30"
	expectStatus(t, env.do(t, http.MethodGet, derivePath, token, nil), http.StatusBadRequest)

	expectStatus(t, env.do(t, http.MethodGet, derivePath+"&weight=NaN", token, nil), http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, derivePath+"&weight=60", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var derived struct {
		CaloriesBurnt float64 `json:"calories_burnt"`
	}
	decode(t, rec, &derived)
	rate, minutes, weight := 0.1633, 30.0, 60.0
	if !almostEqual(derived.CaloriesBurnt, rate*minutes*weight) {
		t.Fatalf("unexpected derived calories: %v", derived.CaloriesBurnt)
	}

	expectStatus(t, env.do(t, http.MethodPut, "/api/profile", token, map[string]any{"current_weight": 70}), http.StatusOK)
	rec = env.do(t, http.MethodGet, derivePath, token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &derived)
	weight = 70
	if !almostEqual(derived.CaloriesBurnt, rate*minutes*weight) {
		t.Fatalf("expected profile weight to be used, got %v", derived.CaloriesBurnt)
	}

	rec = env.do(t, http.MethodPost, "/api/activities/add-activity", token, map[string]any{
		"activity_id": running, "duration_minutes": 30, "calories_burnt": 300,
	})
	expectStatus(t, rec, http.StatusCreated)
	var entry struct {
		ID            int64   `json:"id"`
		CaloriesBurnt float64 `json:"calories_burnt"`
		ActivityDate  string  `json:"activity_date"`
	}
	decode(t, rec, &entry)
	if entry.CaloriesBurnt != 300 || entry.ActivityDate != "2024-03-01" {
		t.Fatalf("unexpected activity entry: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPut, "/api/activities/"+itoa(entry.ID), token, map[string]any{"duration_minutes": 60})
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &entry)
	minutes = 60
	if !almostEqual(entry.CaloriesBurnt, rate*minutes*weight) {
		t.Fatalf("expected recomputed calories, got %v", entry.CaloriesBurnt)
	}

	rec = env.do(t, http.MethodGet, "/api/profile", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var profile struct {
		CurrentWeight      *float64 `json:"current_weight"`
		CaloriesBurntToday float64  `json:"calories_burnt_today"`
	}
	decode(t, rec, &profile)
	if profile.CurrentWeight == nil || *profile.CurrentWeight != 70 || !almostEqual(profile.CaloriesBurntToday, entry.CaloriesBurnt) {
		t.Fatalf("unexpected profile: %s", rec.Body.String())
	}

	expectStatus(t, env.do(t, http.MethodDelete, "/api/activities/"+itoa(entry.ID), token, nil), http.StatusNoContent)
}

func TestProfileWeightRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.register(t, "ana")

	expectStatus(t, env.do(t, http.MethodPut, "/api/profile", token, map[string]any{}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/api/profile/weight", token, map[string]any{}), http.StatusBadRequest)

	rec := env.do(t, http.MethodPost, "/api/profile/weight", token, map[string]any{"weight": 72.5})
	expectStatus(t, rec, http.StatusOK)
	var out struct {
		Changed bool `json:"changed"`
	}
	decode(t, rec, &out)
	if !out.Changed {
		t.Fatalf("expected first weight to be recorded")
	}
	rec = env.do(t, http.MethodPost, "/api/profile/weight", token, map[string]any{"weight": 72.5})
	decode(t, rec, &out)
	if out.Changed {
		t.Fatalf("expected repeated weight to be skipped")
	}

	env.clock.Advance(24 * time.Hour)
	expectStatus(t, env.do(t, http.MethodPost, "/api/profile/weight", token, map[string]any{"weight": 71}), http.StatusOK)

	rec = env.do(t, http.MethodGet, "/api/profile/weight-history", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var history []struct {
		RecordDate string  `json:"record_date"`
		Weight     float64 `json:"weight"`
	}
	decode(t, rec, &history)
	if len(history) != 2 || history[0].RecordDate != "2024-03-01" || history[1].Weight != 71 {
		t.Fatalf("unexpected weight history: %s", rec.Body.String())
	}
}

func TestReminderRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.register(t, "ana")

	rec := env.do(t, http.MethodPost, "/api/reminders", token, map[string]any{"type": "water", "frequency": 60, "time_of_day": "08:00"})
	expectStatus(t, rec, http.StatusOK)
	var rem struct {
		ID        int64   `json:"id"`
		Type      string  `json:"type"`
		Frequency *int    `json:"frequency"`
		TimeOfDay *string `json:"time_of_day"`
		IsActive  bool    `json:"is_active"`
	}
	decode(t, rec, &rem)
	if rem.Type != "water" || rem.Frequency == nil || *rem.Frequency != 60 || rem.TimeOfDay != nil || !rem.IsActive {
		t.Fatalf("unexpected reminder: %s", rec.Body.String())
	}
	if env.logs.FilterMessage("ignoring time_of_day on water reminder").Len() != 1 {
		t.Fatalf("expected a warning for the dropped time_of_day")
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/reminders", token, map[string]any{"type": "sleep"}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/api/reminders", token, map[string]any{"type": "nap", "time_of_day": "13:00"}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/api/reminders", token, map[string]any{"type": "sleep", "time_of_day": "22:00"}), http.StatusOK)

	var list []struct {
		ID   int64  `json:"id"`
		Type string `json:"type"`
	}
	rec = env.do(t, http.MethodGet, "/api/reminders/due", token, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Type != "water" {
		t.Fatalf("expected only water due, got %s", rec.Body.String())
	}

	path := "/api/reminders/" + itoa(rem.ID)
	expectStatus(t, env.do(t, http.MethodPut, path+"/triggered", token, nil), http.StatusOK)
	rec = env.do(t, http.MethodGet, "/api/reminders/due", token, nil)
	decode(t, rec, &list)
	if len(list) != 0 {
		t.Fatalf("expected nothing due right after trigger, got %s", rec.Body.String())
	}

	expectStatus(t, env.do(t, http.MethodPut, path+"/toggle-active", token, map[string]any{}), http.StatusBadRequest)
	rec = env.do(t, http.MethodPut, path+"/toggle-active", token, map[string]any{"is_active": false})
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &rem)
	if rem.IsActive {
		t.Fatalf("expected reminder to be inactive")
	}

	rec = env.do(t, http.MethodGet, "/api/reminders", token, nil)
	decode(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 reminders, got %s", rec.Body.String())
	}

	expectStatus(t, env.do(t, http.MethodDelete, path, token, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodPut, path+"/triggered", token, nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodPut, "/api/reminders/abc/toggle-active", token, map[string]any{"is_active": true}), http.StatusBadRequest)
}

func TestCatalogRoutesAndMalformedJSON(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.register(t, "ana")

	rec := env.do(t, http.MethodGet, "/api/exercises", token, nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty exercise list, got %s", rec.Body.String())
	}
	expectStatus(t, env.do(t, http.MethodGet, "/api/wellness", token, nil), http.StatusOK)

	rec = env.do(t, http.MethodPost, "/api/meals/add-meal", token, "{not json")
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), "invalid json body") {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
