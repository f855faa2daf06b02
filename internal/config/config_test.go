package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
reconcile:
  search_window_days: 10
  grace_period_days: 5
  amount_tolerance: 0.05
localization:
  language: ru
server:
  port: 9090
  allowed_origins:
    - https://rent.example.com
observability:
  logging:
    level: debug
    format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Reconcile.SearchWindowDays)
	assert.Equal(t, 5, cfg.Reconcile.GracePeriodDays)
	assert.Equal(t, 0.05, cfg.Reconcile.AmountTolerance)
	assert.Equal(t, "ru", cfg.Localization.Language)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://rent.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("localization:\n  language: ru\n"), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "ru", cfg.Localization.Language)
	assert.Equal(t, 7, cfg.Reconcile.SearchWindowDays)
	assert.Equal(t, 3, cfg.Reconcile.GracePeriodDays)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("RENT_TRACKER_LANG", "ru")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("localization:\n  language: ${RENT_TRACKER_LANG}\n"), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "ru", cfg.Localization.Language)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RENT_TRACKER_SEARCH_WINDOW_DAYS", "14")
	t.Setenv("RENT_TRACKER_GRACE_PERIOD_DAYS", "5")
	t.Setenv("RENT_TRACKER_LANG", "ru")
	t.Setenv("RENT_TRACKER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadFromEnv()

	assert.Equal(t, 14, cfg.Reconcile.SearchWindowDays)
	assert.Equal(t, 5, cfg.Reconcile.GracePeriodDays)
	assert.Equal(t, "ru", cfg.Localization.Language)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("RENT_TRACKER_PORT", "not-a-number")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadOrEnvWithPath_FallsBackToEnv(t *testing.T) {
	t.Setenv("RENT_TRACKER_LANG", "ru")

	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, "ru", cfg.Localization.Language)
}

func TestMatcherConfig(t *testing.T) {
	rc := ReconcileConfig{SearchWindowDays: 7, GracePeriodDays: 3, AmountTolerance: 0.01}

	mc := rc.MatcherConfig()

	assert.Equal(t, 7, mc.WindowBeforeDays)
	assert.Equal(t, 3, mc.GraceDays)
	assert.True(t, mc.AmountTolerance.Equal(decimal.NewFromFloat(0.01)))
}
