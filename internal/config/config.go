package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
)

// Config holds all runtime configuration.
type Config struct {
	// CatalogPath is the product catalog file, ".csv" or ".json".
	CatalogPath string

	// DBPath is the SQLite event store. Empty means the default XDG path.
	DBPath string

	// Addr is the HTTP listen address for serve. Default: ":8080".
	Addr string

	Image imageurl.Config

	// ProbeTimeout bounds one image existence check. Default: 5s.
	ProbeTimeout time.Duration

	// LogLevel is a zap level name. Default: "info".
	LogLevel string

	// CORSOrigins lists origins allowed to call the HTTP API.
	// Default: ["*"].
	CORSOrigins []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		Image:        imageurl.DefaultConfig(),
		ProbeTimeout: imageurl.DefaultProbeTimeout,
		LogLevel:     "info",
		CORSOrigins:  []string{"*"},
	}
}

// ConfigFromEnv builds a Config from LENSQUIZ_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if p := os.Getenv("LENSQUIZ_CATALOG"); p != "" {
		cfg.CatalogPath = p
	}
	if p := os.Getenv("LENSQUIZ_DB"); p != "" {
		cfg.DBPath = p
	}
	if a := os.Getenv("LENSQUIZ_ADDR"); a != "" {
		cfg.Addr = a
	}

	if h := os.Getenv("LENSQUIZ_IMAGE_HOST"); h != "" {
		cfg.Image.Host = h
	}
	if u := os.Getenv("LENSQUIZ_IMAGE_USER"); u != "" {
		cfg.Image.User = u
	}
	if r := os.Getenv("LENSQUIZ_IMAGE_REPO"); r != "" {
		cfg.Image.Repo = r
	}
	if b := os.Getenv("LENSQUIZ_IMAGE_BRANCH"); b != "" {
		cfg.Image.Branch = b
	}
	if p := os.Getenv("LENSQUIZ_LENS_PATH"); p != "" {
		cfg.Image.LensPath = p
	}
	if p := os.Getenv("LENSQUIZ_THUMBNAIL_PATH"); p != "" {
		cfg.Image.ThumbnailPath = p
	}

	if t := os.Getenv("LENSQUIZ_PROBE_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return cfg, fmt.Errorf("LENSQUIZ_PROBE_TIMEOUT: %w", err)
		}
		cfg.ProbeTimeout = d
	}

	if l := os.Getenv("LENSQUIZ_LOG_LEVEL"); l != "" {
		cfg.LogLevel = l
	}

	if o := os.Getenv("LENSQUIZ_CORS_ORIGINS"); o != "" {
		cfg.CORSOrigins = splitList(o)
	}

	return cfg, nil
}

// Validate checks the settings every quiz command needs.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CatalogPath) == "" {
		errs = append(errs, errors.New("LENSQUIZ_CATALOG (or --catalog) is required"))
	}
	if err := c.Image.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.ProbeTimeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
