package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for dcscrape.
type Config struct {
	Region  RegionConfig  `mapstructure:"region"  yaml:"region"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// RegionConfig pins the scrape to one geographic region of the directory.
type RegionConfig struct {
	BaseURL          string      `mapstructure:"base_url"          yaml:"base_url"`
	Path             string      `mapstructure:"path"              yaml:"path"`
	State            string      `mapstructure:"state"             yaml:"state"`
	Country          string      `mapstructure:"country"           yaml:"country"`
	ExcludedSegments []string    `mapstructure:"excluded_segments" yaml:"excluded_segments"`
	Bounds           BoundingBox `mapstructure:"bounds"            yaml:"bounds"`
}

// BoundingBox is the coordinate sanity window for regex-mined lat/lng
// pairs. Pairs outside the box are rejected as mis-extractions.
type BoundingBox struct {
	MinLat float64 `mapstructure:"min_lat" yaml:"min_lat"`
	MaxLat float64 `mapstructure:"max_lat" yaml:"max_lat"`
	MinLng float64 `mapstructure:"min_lng" yaml:"min_lng"`
	MaxLng float64 `mapstructure:"max_lng" yaml:"max_lng"`
}

// Contains reports whether the pair falls inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// FetcherConfig controls the politeness-gated fetcher.
type FetcherConfig struct {
	Delay           time.Duration `mapstructure:"delay"            yaml:"delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	DisallowedPaths []string      `mapstructure:"disallowed_paths" yaml:"disallowed_paths"`
}

// OutputConfig controls where and how datasets are written.
type OutputConfig struct {
	Dir       string `mapstructure:"dir"        yaml:"dir"`
	Prefix    string `mapstructure:"prefix"     yaml:"prefix"`
	ChunkSize int    `mapstructure:"chunk_size" yaml:"chunk_size"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with the Texas defaults the tool ships with.
func DefaultConfig() *Config {
	return &Config{
		Region: RegionConfig{
			BaseURL: "https://www.datacentermap.com",
			Path:    "/usa/texas/",
			State:   "Texas",
			Country: "United States",
			// Utility pages that look like facility links but are not.
			ExcludedSegments: []string{
				"/quote/", "/visit/", "/api/", "/ui/", "/as/", "/legal/",
			},
			// Texas, with a little slack on every edge.
			Bounds: BoundingBox{
				MinLat: 25, MaxLat: 37,
				MinLng: -107, MaxLng: -93,
			},
		},
		Fetcher: FetcherConfig{
			// 30s between requests per the site's robots.txt crawl policy.
			Delay:          30 * time.Second,
			RequestTimeout: 30 * time.Second,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			// Paths disallowed by robots.txt; never fetched at all.
			DisallowedPaths: []string{
				"/ui/", "/api/", "/visit/", "/as/", "/legal/", "/c/",
			},
		},
		Output: OutputConfig{
			Dir:       ".",
			Prefix:    "texas_datacenters",
			ChunkSize: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
