package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for TIMEZONE

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongoDB = "mongodb"
	StoreMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Store   StoreConfig
	MongoDB MongoDBConfig
	Sheets  SheetsConfig
	Digest  DigestConfig
	Clock   ClockConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration for the optional Google Sheets digest mirror.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the mirror is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// DigestConfig holds scheduler-related settings.
type DigestConfig struct {
	CronSchedule string
	Timezone     string
}

// ClockConfig pins the reference time used for all date math. Zero means wall clock.
type ClockConfig struct {
	ReferenceTime time.Time
}

// Now returns the configured clock.
func (c ClockConfig) Now() func() time.Time {
	if c.ReferenceTime.IsZero() {
		return time.Now
	}
	ref := c.ReferenceTime
	return func() time.Time { return ref }
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getenvWithDefault("STORE_DRIVER", StoreMongoDB)),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ganaderia"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Bogota"),
		},
	}

	if raw := os.Getenv("REFERENCE_TIME"); raw != "" {
		ref, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("REFERENCE_TIME must be RFC3339: %w", err)
		}
		cfg.Clock.ReferenceTime = ref
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q is not supported", c.Store.Driver)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Digest.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Digest.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
