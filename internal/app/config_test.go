package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEnv(t *testing.T, vars map[string]string) (Config, error) {
	t.Helper()
	if vars == nil {
		vars = map[string]string{}
	}
	return ParseConfig(env.Options{Environment: vars})
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseEnv(t, nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTP.Addr())
	assert.Equal(t, []string{"/ee2101/api"}, cfg.HTTP.APIPrefixes)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, time.Hour, cfg.Grading.JobRetention)
	assert.Equal(t, time.Hour, cfg.Grading.ReapInterval)
	assert.Equal(t, "auto", cfg.Vision.Provider)
	assert.Equal(t, "grading.jobs", cfg.Redis.Channel)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.False(t, cfg.Observability.OtelEnabled)
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := parseEnv(t, map[string]string{
		"PORT":                       "127.0.0.1:9000",
		"API_PREFIXES":               "/ee2101/api,/me1001/api",
		"CORS_ORIGINS":               "https://a.example.edu,https://b.example.edu",
		"JOB_RETENTION":              "30m",
		"REAP_INTERVAL":              "5m",
		"OTEL_EXPORTER_OTLP_HEADERS": "x-key=abc",
		"UDI_SALT":                   "pepper",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
	assert.Equal(t, []string{"/ee2101/api", "/me1001/api"}, cfg.HTTP.APIPrefixes)
	assert.Len(t, cfg.HTTP.CORSOrigins, 2)
	assert.Equal(t, 30*time.Minute, cfg.Grading.JobRetention)
	assert.Equal(t, 5*time.Minute, cfg.Grading.ReapInterval)
	assert.Equal(t, "pepper", cfg.Grading.UDISalt)
	assert.Equal(t, map[string]string{"x-key": "abc"}, cfg.Observability.Otel().Headers)
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	for name, vars := range map[string]map[string]string{
		"zero retention": {"JOB_RETENTION": "0s"},
		"bad duration":   {"REAP_INTERVAL": "soon"},
		"negative body":  {"MAX_BODY_BYTES": "-1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseEnv(t, vars)
			require.Error(t, err)
		})
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COURSE_PROFILES_PATH=/etc/grader/profiles.yaml\n"), 0o600))
	t.Setenv("COURSE_PROFILES_PATH", "")
	require.NoError(t, os.Unsetenv("COURSE_PROFILES_PATH"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/grader/profiles.yaml", cfg.Grading.CourseProfilesPath)
}

func TestLoadConfigIgnoresMissingDotEnv(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
