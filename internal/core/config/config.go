package config

import (
	"time"

	"github.com/vietddude/oldestdate/internal/infra/musicbrainz"
	redisclient "github.com/vietddude/oldestdate/internal/infra/redis"
	"github.com/vietddude/oldestdate/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	MusicBrainz musicbrainz.Config `yaml:"musicbrainz"`
	Resolver    ResolverConfig     `yaml:"resolver"`
	Library     LibraryConfig      `yaml:"library"`
	Redis       redisclient.Config `yaml:"redis"`
	Database    postgres.Config    `yaml:"database"`
	Logging     LoggingConfig      `yaml:"logging"`
	Server      ServerConfig       `yaml:"server"`
}

// ResolverConfig holds the resolution policy.
type ResolverConfig struct {
	Approach          string        `yaml:"approach"`      // recordings, releases, hybrid, both
	ReleaseTypes      []string      `yaml:"release_types"` // null = accept all
	FilterRecordings  bool          `yaml:"filter_recordings"`
	UseFileDate       bool          `yaml:"use_file_date"`
	MaxNetworkRetries int           `yaml:"max_network_retries"`
	BackoffUnit       time.Duration `yaml:"backoff_unit"`
	CacheSize         int           `yaml:"cache_size"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// LibraryConfig holds the per-track processing switches.
type LibraryConfig struct {
	Force         bool `yaml:"force"`          // reprocess tracks that already have a recording year
	OverwriteYear bool `yaml:"overwrite_year"` // also replace the track's year
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the configuration used when no file is given. Loaded
// files are decoded on top of it, so absent keys keep these values.
func Default() *AppConfig {
	return &AppConfig{
		MusicBrainz: musicbrainz.DefaultConfig,
		Resolver: ResolverConfig{
			Approach:          "hybrid",
			ReleaseTypes:      []string{"Official"},
			FilterRecordings:  true,
			MaxNetworkRetries: 3,
			BackoffUnit:       time.Second,
			CacheSize:         1024,
			CacheTTL:          time.Hour,
		},
		Redis: redisclient.Config{
			TTL: redisclient.DefaultTTL,
		},
		Database: postgres.Config{
			MaxConns: 10,
			MinConns: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
