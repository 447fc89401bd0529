package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flag overrides are applied by the command layer after loading.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("DCSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("dcscrape")
		v.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".dcscrape"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("region.base_url", cfg.Region.BaseURL)
	v.SetDefault("region.path", cfg.Region.Path)
	v.SetDefault("region.state", cfg.Region.State)
	v.SetDefault("region.country", cfg.Region.Country)
	v.SetDefault("region.excluded_segments", cfg.Region.ExcludedSegments)
	v.SetDefault("region.bounds.min_lat", cfg.Region.Bounds.MinLat)
	v.SetDefault("region.bounds.max_lat", cfg.Region.Bounds.MaxLat)
	v.SetDefault("region.bounds.min_lng", cfg.Region.Bounds.MinLng)
	v.SetDefault("region.bounds.max_lng", cfg.Region.Bounds.MaxLng)

	v.SetDefault("fetcher.delay", cfg.Fetcher.Delay)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.disallowed_paths", cfg.Fetcher.DisallowedPaths)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.prefix", cfg.Output.Prefix)
	v.SetDefault("output.chunk_size", cfg.Output.ChunkSize)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
