// Package config loads gateway configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	defaultPort         = "8080"
	defaultEnv          = "development"
	defaultPSIBaseURL   = "https://api.data.gov.sg/v1/environment/psi"
	defaultPSITimeout   = 10 * time.Second
	defaultOTLPEndpoint = "localhost:4317"
	defaultLogLevel     = zerolog.InfoLevel
)

// Config holds runtime configuration for the gateway.
type Config struct {
	Port        string
	Environment string

	// PSIBaseURL is the PSI endpoint; the date_time query is appended to it.
	PSIBaseURL string
	PSITimeout time.Duration

	TelemetryEnabled bool
	OTLPEndpoint     string

	// RequireTLS rejects requests that did not arrive over HTTPS.
	RequireTLS bool

	LogLevel zerolog.Level
}

// Load reads configuration from environment variables. Variables from the
// given dotenv files (default ".env") are applied first without overriding
// the process environment; missing files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:         getEnvOrDefault("APP_PORT", defaultPort),
		Environment:  getEnvOrDefault("APP_ENV", defaultEnv),
		PSIBaseURL:   getEnvOrDefault("PSI_BASE_URL", defaultPSIBaseURL),
		PSITimeout:   defaultPSITimeout,
		OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", defaultOTLPEndpoint),
		LogLevel:     defaultLogLevel,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	u, err := url.Parse(cfg.PSIBaseURL)
	if err != nil {
		return cfg, fmt.Errorf("invalid PSI_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return cfg, fmt.Errorf("invalid PSI_BASE_URL: unsupported scheme %q", u.Scheme)
	}

	if v := env("PSI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PSI_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("invalid PSI_TIMEOUT: must be positive, got %s", d)
		}
		cfg.PSITimeout = d
	}

	if cfg.TelemetryEnabled, err = getBool("OTEL_ENABLED"); err != nil {
		return cfg, err
	}
	if cfg.RequireTLS, err = getBool("REQUIRE_TLS"); err != nil {
		return cfg, err
	}

	if v := env("LOG_LEVEL"); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// IsProduction reports whether the gateway runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := env(key); v != "" {
		return v
	}
	return defaultValue
}

func getBool(key string) (bool, error) {
	v := env(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
