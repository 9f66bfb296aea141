package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "accounts",
		sql: `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  gender TEXT,
  date_of_birth TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_profiles (
  user_id TEXT PRIMARY KEY,
  current_weight REAL CHECK(current_weight > 0),
  height REAL CHECK(height > 0),
  weight_goal REAL CHECK(weight_goal > 0),
  activity_level TEXT,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 2,
		name:    "reference_catalogs",
		sql: `
CREATE TABLE IF NOT EXISTS foods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  calories REAL NOT NULL CHECK(calories >= 0),
  protein REAL NOT NULL CHECK(protein >= 0),
  carbs REAL NOT NULL CHECK(carbs >= 0),
  fat REAL NOT NULL CHECK(fat >= 0)
);

CREATE TABLE IF NOT EXISTS activities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  calories_per_min_per_kg REAL NOT NULL CHECK(calories_per_min_per_kg >= 0)
);
`,
	},
	{
		version: 3,
		name:    "meal_and_activity_entries",
		sql: `
CREATE TABLE IF NOT EXISTS user_meals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  food_id INTEGER NOT NULL,
  grams REAL NOT NULL CHECK(grams > 0),
  calories REAL NOT NULL CHECK(calories >= 0),
  protein REAL NOT NULL CHECK(protein >= 0),
  carbs REAL NOT NULL CHECK(carbs >= 0),
  fat REAL NOT NULL CHECK(fat >= 0),
  meal_date TEXT NOT NULL,
  meal_type TEXT NOT NULL CHECK(meal_type IN ('Breakfast', 'Lunch', 'Dinner', 'Snack')),
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
  FOREIGN KEY(food_id) REFERENCES foods(id)
);

CREATE INDEX IF NOT EXISTS idx_user_meals_user_date ON user_meals(user_id, meal_date);

CREATE TABLE IF NOT EXISTS user_activities (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  activity_id INTEGER NOT NULL,
  duration_minutes REAL NOT NULL CHECK(duration_minutes > 0),
  calories_burnt REAL NOT NULL CHECK(calories_burnt >= 0),
  activity_date TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
  FOREIGN KEY(activity_id) REFERENCES activities(id)
);

CREATE INDEX IF NOT EXISTS idx_user_activities_user_date ON user_activities(user_id, activity_date);
`,
	},
	{
		version: 4,
		name:    "weight_history",
		sql: `
CREATE TABLE IF NOT EXISTS weight_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  record_date TEXT NOT NULL,
  weight REAL NOT NULL CHECK(weight > 0),
  UNIQUE(user_id, record_date),
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 5,
		name:    "reminders",
		sql: `
CREATE TABLE IF NOT EXISTS reminders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL CHECK(type IN ('water', 'sleep', 'workout')),
  frequency_minutes INTEGER,
  time_of_day TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_triggered TEXT,
  UNIQUE(user_id, type),
  CHECK(
    (type = 'water' AND frequency_minutes IS NOT NULL AND frequency_minutes > 0 AND time_of_day IS NULL) OR
    (type <> 'water' AND time_of_day IS NOT NULL AND frequency_minutes IS NULL)
  ),
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`,
	},
	{
		version: 6,
		name:    "exercise_and_wellness_catalogs",
		sql: `
CREATE TABLE IF NOT EXISTS exercises (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT '',
  goal TEXT NOT NULL DEFAULT '',
  muscle_group TEXT NOT NULL DEFAULT '',
  equipment_needed TEXT NOT NULL DEFAULT '',
  common_mistakes TEXT NOT NULL DEFAULT '',
  youtube_link TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS wellness_videos (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  youtube_link TEXT NOT NULL DEFAULT '',
  UNIQUE(type, title)
);
`,
	},
}

type defaultActivity struct {
	name string
	rate float64
}

// Rates are kcal per minute per kg of body weight (MET / 60).
var defaultActivities = []defaultActivity{
	{name: "Walking", rate: 0.0583},
	{name: "Running", rate: 0.1633},
	{name: "Cycling", rate: 0.1333},
	{name: "Swimming", rate: 0.1333},
	{name: "Yoga", rate: 0.0417},
	{name: "Strength Training", rate: 0.1000},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	for _, a := range defaultActivities {
		if _, err := db.Exec(`INSERT OR IGNORE INTO activities(name, calories_per_min_per_kg) VALUES(?, ?)`, a.name, a.rate); err != nil {
			return fmt.Errorf("seed default activity %s: %w", a.name, err)
		}
	}

	return nil
}
