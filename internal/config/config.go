package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/app"
)

type Config struct {
	Env           string              `yaml:"env"`
	HTTP          HTTPConfig          `yaml:"http"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	CORS          CORSConfig          `yaml:"cors"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	OpenFoodFacts OpenFoodFactsConfig `yaml:"openfoodfacts"`
	USDA          USDAConfig          `yaml:"usda"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret"`
	TokenTTL  Duration `yaml:"token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type CatalogConfig struct {
	SeedFile string `yaml:"seed_file"`
}

type OpenFoodFactsConfig struct {
	BaseURL string `yaml:"base_url"`
}

// USDAConfig enables FoodData Central as a fallback barcode source when
// APIKey is set.
type USDAConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Duration decodes YAML strings such as "24h" or "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

func Default() Config {
	dbPath, err := app.DefaultDBPath()
	if err != nil {
		dbPath = "pulsecare.db"
	}
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:           ":8080",
			RequestTimeout: Duration{15 * time.Second},
		},
		Database: DatabaseConfig{Path: dbPath},
		Auth:     AuthConfig{TokenTTL: Duration{24 * time.Hour}},
		CORS:     CORSConfig{AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"}},
	}
}

// Load layers configuration: defaults, then the YAML file at path, then a
// .env file in the working directory, then process environment variables.
// An empty path falls back to the default config location, where a missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		// No user config dir means no default file to read.
		if p, err := app.DefaultConfigPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables resolved through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PULSECARE_ENV"); ok {
		c.Env = v
	}
	if v, ok := get("PORT"); ok {
		c.HTTP.Addr = ":" + v
	}
	if v, ok := get("PULSECARE_HTTP_ADDR"); ok {
		c.HTTP.Addr = v
	}
	if v, ok := get("PULSECARE_DB_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := get("PULSECARE_JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := get("PULSECARE_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PULSECARE_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = Duration{d}
	}
	if v, ok := get("PULSECARE_CORS_ORIGINS"); ok {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	if v, ok := get("PULSECARE_CATALOG_SEED"); ok {
		c.Catalog.SeedFile = v
	}
	if v, ok := get("PULSECARE_OFF_BASE_URL"); ok {
		c.OpenFoodFacts.BaseURL = v
	}
	if v, ok := get("USDA_API_KEY"); ok {
		c.USDA.APIKey = v
	}
	if v, ok := get("PULSECARE_USDA_API_KEY"); ok {
		c.USDA.APIKey = v
	}
	return nil
}

// ValidateServe checks the settings the HTTP server cannot run without.
func (c Config) ValidateServe() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("jwt secret is required (set auth.jwt_secret or JWT_SECRET)")
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		return fmt.Errorf("auth token ttl must be > 0")
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("http address is required")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}
