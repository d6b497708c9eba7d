package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "Yahoo Finance", cfg.Feeds.News.Origin)
	assert.Equal(t, 30, cfg.Feeds.News.WindowDays)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.NotEmpty(t, cfg.Claude.Model)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env:env@db:5432/envdb")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("CLAUDE_MODEL", "claude-test-model")

	cfg := Load()

	assert.Equal(t, "postgres://env:env@db:5432/envdb", cfg.Database.DSN)
	assert.Equal(t, "sk-test", cfg.Claude.APIKey)
	assert.Equal(t, "claude-test-model", cfg.Claude.Model)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	raw := `
logging:
  level: debug
storage:
  driver: file
  ledgerPath: /tmp/ledger.txt
feeds:
  news:
    origin: Custom Wire
    windowDays: 7
scheduler:
  timezone: America/New_York
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	t.Setenv("STOCKPULSE_CONFIG", path)

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/ledger.txt", cfg.Storage.LedgerPath)
	assert.Equal(t, "Custom Wire", cfg.Feeds.News.Origin)
	assert.Equal(t, 7, cfg.Feeds.News.WindowDays)
	assert.Equal(t, "America/New_York", cfg.Scheduler.Location().String())
	// Untouched sections keep defaults.
	assert.Equal(t, "WallStreetBets", cfg.Feeds.Reddit.Origin)
}

func TestLoadSurvivesBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))
	t.Setenv("STOCKPULSE_CONFIG", path)

	cfg := Load()
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver, "broken file falls back to defaults")
}
