package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks a Config for values that would break a run.
func Validate(cfg *Config) error {
	if cfg.Region.BaseURL == "" {
		return fmt.Errorf("region.base_url must be set")
	}
	u, err := url.Parse(cfg.Region.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("region.base_url %q is not an absolute URL", cfg.Region.BaseURL)
	}

	if !strings.HasPrefix(cfg.Region.Path, "/") || !strings.HasSuffix(cfg.Region.Path, "/") {
		return fmt.Errorf("region.path %q must start and end with a slash", cfg.Region.Path)
	}

	b := cfg.Region.Bounds
	if b.MinLat >= b.MaxLat || b.MinLng >= b.MaxLng {
		return fmt.Errorf("region.bounds is empty or inverted: %+v", b)
	}

	if cfg.Fetcher.Delay < 0 {
		return fmt.Errorf("fetcher.delay must not be negative")
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be positive")
	}

	if cfg.Output.ChunkSize <= 0 {
		return fmt.Errorf("output.chunk_size must be positive")
	}
	if cfg.Output.Prefix == "" {
		return fmt.Errorf("output.prefix must be set")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}

	return nil
}
