package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any env vars that might interfere with defaults.
	os.Unsetenv("HTTP_LISTEN_ADDR")
	os.Unsetenv("METRICS_LISTEN_ADDR")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("ENGINE_REQUEST_TIMEOUT")
	os.Unsetenv("PROBE_TIMEOUT")
	os.Unsetenv("LINT_QUIESCENCE")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ":8480", cfg.HTTPListenAddr)
	assert.Equal(t, ":9480", cfg.MetricsListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "modelerd", cfg.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.EngineRequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.LintQuiescence)
	assert.NotEmpty(t, cfg.StoreFile)
}

func TestLoad_AllEnvVars(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":7070")
	t.Setenv("METRICS_LISTEN_ADDR", ":7071")
	t.Setenv("STORE_FILE", "/var/lib/modelerd/store.json")
	t.Setenv("LINT_RULES_FILE", "/etc/modelerd/lint.yaml")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENGINE_REQUEST_TIMEOUT", "10s")
	t.Setenv("PROBE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTPListenAddr)
	assert.Equal(t, ":7071", cfg.MetricsListenAddr)
	assert.Equal(t, "/var/lib/modelerd/store.json", cfg.StoreFile)
	assert.Equal(t, "/etc/modelerd/lint.yaml", cfg.LintRulesFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.EngineRequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
}

func TestLoad_DurationAsMilliseconds(t *testing.T) {
	t.Setenv("LINT_QUIESCENCE", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.LintQuiescence)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ENGINE_REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_LISTEN_ADDR")
	assert.Contains(t, err.Error(), "STORE_FILE")
}

func TestValidate_NonPositiveTimeout(t *testing.T) {
	cfg := &Config{
		HTTPListenAddr: ":8480",
		StoreFile:      "store.json",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENGINE_REQUEST_TIMEOUT")
}

func TestValidate_Complete(t *testing.T) {
	cfg := &Config{
		HTTPListenAddr:       ":8480",
		StoreFile:            "store.json",
		EngineRequestTimeout: time.Second,
		ProbeTimeout:         time.Second,
	}
	assert.NoError(t, cfg.Validate())
}
