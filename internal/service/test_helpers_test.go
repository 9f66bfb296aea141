package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/db"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pulsecare.db")
	sqldb, err := db.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func newTestClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
}

// insertUser bypasses bcrypt; only the id and username matter to these tests.
func insertUser(t *testing.T, sqldb *sql.DB, id, username string) {
	t.Helper()
	_, err := sqldb.Exec(`INSERT INTO users(id, username, email, password_hash, created_at) VALUES(?, ?, ?, 'x', '2024-01-01T00:00:00.000000000Z')`,
		id, username, username+"@example.com")
	if err != nil {
		t.Fatalf("insert user %s: %v", id, err)
	}
}

func addFood(t *testing.T, sqldb *sql.DB, in service.AddFoodInput) int64 {
	t.Helper()
	id, err := service.AddFood(context.Background(), sqldb, in)
	if err != nil {
		t.Fatalf("add food %s: %v", in.Name, err)
	}
	return id
}

func activityID(t *testing.T, sqldb *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := sqldb.QueryRow(`SELECT id FROM activities WHERE name = ?`, name).Scan(&id); err != nil {
		t.Fatalf("lookup activity %s: %v", name, err)
	}
	return id
}

func floatPtr(v float64) *float64 {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
