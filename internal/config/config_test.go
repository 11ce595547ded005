package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "STORE_DRIVER", "MONGODB_URI", "MONGODB_DB_NAME",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "DIGEST_CRON_SCHEDULE", "TIMEZONE", "REFERENCE_TIME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, StoreMongoDB, cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "ganaderia", cfg.MongoDB.DBName)
	assert.False(t, cfg.Sheets.Enabled())
	assert.Equal(t, "0 20 * * *", cfg.Digest.CronSchedule)
	assert.Equal(t, "America/Bogota", cfg.Digest.Timezone)
	assert.True(t, cfg.Clock.ReferenceTime.IsZero())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, http://127.0.0.1:5173")
	t.Setenv("REFERENCE_TIME", "2026-10-19T12:00:00Z")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Server.AllowedOrigins)

	now := cfg.Clock.Now()
	assert.True(t, now().Equal(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "STORE_DRIVER", "sqlite"},
		{"bad reference time", "REFERENCE_TIME", "yesterday"},
		{"bad timezone", "TIMEZONE", "Mars/Olympus"},
		{"half sheets config", "GOOGLE_SHEET_DATABASE_ID", "sheet-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load("testdata/missing.env")
			assert.Error(t, err)
		})
	}
}
