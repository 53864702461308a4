package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPListenAddr    string
	MetricsListenAddr string
	// StoreFile is the JSON file holding endpoints and per-document
	// deployment configuration.
	StoreFile     string
	LintRulesFile string
	LogLevel      string
	ServiceName   string
	// EngineRequestTimeout bounds deploy and topology calls; the
	// orchestrator itself imposes no deadline.
	EngineRequestTimeout time.Duration
	ProbeTimeout         time.Duration
	LintQuiescence       time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8480"),
		MetricsListenAddr: getEnv("METRICS_LISTEN_ADDR", ":9480"),
		StoreFile:         getEnv("STORE_FILE", defaultStoreFile()),
		LintRulesFile:     getEnv("LINT_RULES_FILE", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", "modelerd"),
	}

	var err error
	if cfg.EngineRequestTimeout, err = getDuration("ENGINE_REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = getDuration("PROBE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.LintQuiescence, err = getDuration("LINT_QUIESCENCE", 500*time.Millisecond); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that everything the daemon needs is present.
func (c *Config) Validate() error {
	var missing []string
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if c.StoreFile == "" {
		missing = append(missing, "STORE_FILE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.EngineRequestTimeout <= 0 {
		return fmt.Errorf("ENGINE_REQUEST_TIMEOUT must be positive")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("PROBE_TIMEOUT must be positive")
	}
	return nil
}

func defaultStoreFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "modelerd-store.json"
	}
	return filepath.Join(home, ".modelerd", "store.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts either a Go duration string or a bare number of
// milliseconds.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
