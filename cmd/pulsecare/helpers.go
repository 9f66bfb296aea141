package pulsecare

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/app"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/config"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/db"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

var clock = clockwork.NewRealClock()

// loadConfig reads the layered config and applies the --db flag last.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := app.EnsureDBDir(path); err != nil {
		return nil, err
	}
	sqldb, err := db.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}
	return sqldb, nil
}

func withDB(run func(*sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sqldb, err := openDB(context.Background(), cfg.Database.Path)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

// withUser resolves the --user flag to an account id before running.
func withUser(ctx context.Context, username string, run func(*sql.DB, string) error) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("--user is required")
	}
	return withDB(func(sqldb *sql.DB) error {
		u, err := service.GetUserByUsername(ctx, sqldb, username)
		if err != nil {
			return err
		}
		return run(sqldb, u.ID)
	})
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func dateOrToday(date string) string {
	if strings.TrimSpace(date) == "" {
		return service.FormatDate(clock.Now())
	}
	return date
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "not set"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}
