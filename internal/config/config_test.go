package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sadopc/voyage/internal/config"
)

// isolate points the default config directory at an empty temp dir and
// clears every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VOYAGE_DB_PATH", filepath.Join(dir, "voyage.db"))
	for _, k := range []string{
		"VOYAGE_API_KEY", "GEMINI_API_KEY", "API_KEY", "VOYAGE_LOG_LEVEL", "VOYAGE_LOG_FILE",
		"VOYAGE_MODEL", "VOYAGE_LOOKUP_TIMEOUT", "VOYAGE_WEATHER_DAYS", "VOYAGE_EXPORT_DIR",
		"VOYAGE_TRIP_START", "VOYAGE_TRIP_END", "VOYAGE_TRIP_LOCATION",
		"VOYAGE_TRIP_EXCHANGE_RATE", "VOYAGE_TRIP_BUDGET_LIMIT_MYR",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

// TestLoad_defaults verifies the values used when nothing is configured.
func TestLoad_defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load("")

	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "voyage.db"), cfg.DBPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "", cfg.APIKey)
	require.Equal(t, "gemini-2.5-flash", cfg.Model)
	require.Equal(t, 30*time.Second, cfg.LookupTimeout)
	require.Equal(t, 3, cfg.WeatherDays)
	require.Equal(t, "2025-12-15", cfg.Trip.Start)
	require.Equal(t, "2026-01-05", cfg.Trip.End)
	require.Equal(t, 0.15, cfg.Trip.ExchangeRate)
	require.Equal(t, 5000.0, cfg.Trip.BudgetLimitMYR)
	require.Equal(t, 22, cfg.Range().Days())
	require.Equal(t, "Taiwan", cfg.Region())
	require.Equal(t, []string{"2025-12-15", "2025-12-16", "2025-12-17"}, cfg.WeatherDates())
}

// TestLoad_envOverrides verifies VOYAGE_* variables, including nested trip keys.
func TestLoad_envOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("VOYAGE_LOG_LEVEL", "debug")
	t.Setenv("VOYAGE_LOOKUP_TIMEOUT", "5s")
	t.Setenv("VOYAGE_TRIP_START", "2026-03-01")
	t.Setenv("VOYAGE_TRIP_END", "2026-03-04")
	t.Setenv("VOYAGE_TRIP_LOCATION", "Tainan")
	t.Setenv("VOYAGE_WEATHER_DAYS", "0")

	cfg, err := config.Load("")

	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 5*time.Second, cfg.LookupTimeout)
	require.Equal(t, 4, cfg.Range().Days())
	require.Equal(t, "Tainan", cfg.Region())
	require.Empty(t, cfg.WeatherDates())
}

// TestLoad_apiKeyAliases verifies the credential can come from any of its
// variable names.
func TestLoad_apiKeyAliases(t *testing.T) {
	for _, name := range []string{"VOYAGE_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(name, "secret-"+name)

			cfg, err := config.Load("")

			require.NoError(t, err)
			require.Equal(t, "secret-"+name, cfg.APIKey)
		})
	}
}

// TestLoad_file verifies an explicit YAML file is read and env still wins.
func TestLoad_file(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "voyage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: gemini-2.5-pro
trip:
  start: "2026-07-01"
  end: "2026-07-10"
  location: Kaohsiung, Taiwan
  exchange_rate: 0.14
`), 0o644))
	t.Setenv("VOYAGE_TRIP_END", "2026-07-05")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	require.Equal(t, "gemini-2.5-pro", cfg.Model)
	require.Equal(t, "2026-07-01", cfg.Trip.Start)
	require.Equal(t, "2026-07-05", cfg.Trip.End)
	require.Equal(t, 0.14, cfg.Trip.ExchangeRate)
	require.Equal(t, 5, cfg.Range().Days())
}

// TestLoad_defaultFile verifies config.yaml next to the database is picked up.
func TestLoad_defaultFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: warn\n"), 0o644))

	cfg, err := config.Load("")

	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
}

// TestLoad_missingExplicitFile verifies a named config file must exist.
func TestLoad_missingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(filepath.Join(dir, "nope.yaml"))

	require.Error(t, err)
	require.ErrorContains(t, err, "read config file")
}

// TestLoad_invalidRange verifies an end date before the start is rejected.
func TestLoad_invalidRange(t *testing.T) {
	isolate(t)
	t.Setenv("VOYAGE_TRIP_START", "2026-01-05")
	t.Setenv("VOYAGE_TRIP_END", "2025-12-15")

	_, err := config.Load("")

	require.Error(t, err)
	require.ErrorContains(t, err, "trip dates")
}

// TestLoad_malformedDate verifies dates must be YYYY-MM-DD.
func TestLoad_malformedDate(t *testing.T) {
	isolate(t)
	t.Setenv("VOYAGE_TRIP_START", "15/12/2025")

	_, err := config.Load("")

	require.Error(t, err)
}
