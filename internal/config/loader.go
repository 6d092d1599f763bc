package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "TALLYMAP_"
	envConfig  = "TALLYMAP_CONFIG"
	envDotFile = "TALLYMAP_ENV_FILE"

	defaultDotFile = ".env"
)

// Load builds a Config by layering defaults, .env, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (TALLYMAP_ENV_FILE, default ".env"); never overrides real env
//  3. file (YAML) if TALLYMAP_CONFIG is set
//  4. env (prefix TALLYMAP_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	dotFile := os.Getenv(envDotFile)
	if dotFile == "" {
		dotFile = defaultDotFile
	}
	if err := godotenv.Load(dotFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, dotFile, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TALLYMAP_SOURCE_URL -> source_url. Keys stay flat so underscores match
	// the koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	// A region table from the file replaces the defaults instead of merging
	// into them, so `region_codes: {}` switches to name keys.
	if k.Exists("region_codes") {
		cfg.RegionCodes = k.StringMap("region_codes")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SourceURL == "":
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	case c.RefreshIntervalMS <= 0:
		return fmt.Errorf("%w: refresh_interval_ms must be positive, got %d", ErrInvalidConfig, c.RefreshIntervalMS)
	case c.FetchTimeoutMS < 0:
		return fmt.Errorf("%w: fetch_timeout_ms must not be negative, got %d", ErrInvalidConfig, c.FetchTimeoutMS)
	case c.DemLabel == "" || c.RepLabel == "":
		return fmt.Errorf("%w: party labels must not be empty", ErrInvalidConfig)
	case c.DemLabel == c.RepLabel:
		return fmt.Errorf("%w: dem_label and rep_label must differ, both are %q", ErrInvalidConfig, c.DemLabel)
	case c.RefreshRatePerMin <= 0:
		return fmt.Errorf("%w: refresh_rate_per_min must be positive, got %d", ErrInvalidConfig, c.RefreshRatePerMin)
	case c.MaxWSClients <= 0:
		return fmt.Errorf("%w: max_ws_clients must be positive, got %d", ErrInvalidConfig, c.MaxWSClients)
	}

	u, err := url.Parse(c.SourceURL)
	if err != nil {
		return fmt.Errorf("%w: source_url: %w", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: source_url scheme must be http or https, got %q", ErrInvalidConfig, u.Scheme)
	}
	return nil
}
