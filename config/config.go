// ABOUTME: Server configuration loaded from COHORT_* environment variables via caarlos0/env.
// ABOUTME: Defaults match the content repository layout: public/curriculum.json and content/.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything the CLI and server need.
type Config struct {
	Addr          string        `env:"COHORT_ADDR" envDefault:"127.0.0.1:3000"`
	ManifestPath  string        `env:"COHORT_MANIFEST" envDefault:"public/curriculum.json"`
	ContentDir    string        `env:"COHORT_CONTENT_DIR" envDefault:"content"`
	APIBaseURL    string        `env:"COHORT_API_BASE_URL"` // empty: the server's own address
	FetchTimeout  time.Duration `env:"COHORT_FETCH_TIMEOUT" envDefault:"15s"`
	RenderTTL     time.Duration `env:"COHORT_RENDER_CACHE_TTL" envDefault:"10m"`
	LogMode       string        `env:"COHORT_LOG_MODE" envDefault:"dev"`
	LogLevel      string        `env:"COHORT_LOG_LEVEL" envDefault:"info"`
	Trace         bool          `env:"COHORT_TRACE" envDefault:"false"`
	TraceSampling float64       `env:"COHORT_TRACE_SAMPLING" envDefault:"1"`
}

// FromEnv parses configuration from the environment and validates it.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ManifestPath) == "" {
		return fmt.Errorf("%w: COHORT_MANIFEST must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ContentDir) == "" {
		return fmt.Errorf("%w: COHORT_CONTENT_DIR must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogMode) {
	case "dev", "prod", "production":
	default:
		return fmt.Errorf("%w: COHORT_LOG_MODE must be dev or prod, got %q", ErrInvalidConfig, c.LogMode)
	}
	if c.FetchTimeout < 0 || c.RenderTTL < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	if c.TraceSampling < 0 || c.TraceSampling > 1 {
		return fmt.Errorf("%w: COHORT_TRACE_SAMPLING must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// APIBase returns the base URL the data store fetches from, falling back to
// the server's own listen address.
func (c *Config) APIBase(listenAddr string) string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	host := listenAddr
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	return "http://" + host
}
