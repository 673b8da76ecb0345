package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

// Load reads configuration from a YAML file. An empty path yields the
// defaults.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the resolver cannot work with.
func (c *AppConfig) Validate() error {
	var errs []error

	if _, err := domain.ParseApproach(c.Resolver.Approach); err != nil {
		errs = append(errs, fmt.Errorf("resolver.approach: %w", err))
	}
	if c.Resolver.MaxNetworkRetries < 1 {
		errs = append(errs, fmt.Errorf("resolver.max_network_retries must be at least 1, got %d",
			c.Resolver.MaxNetworkRetries))
	}
	if c.Resolver.BackoffUnit < 0 {
		errs = append(errs, fmt.Errorf("resolver.backoff_unit must not be negative"))
	}
	if c.MusicBrainz.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("musicbrainz.rate_limit must be positive, got %v", c.MusicBrainz.RateLimit))
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		errs = append(errs, errors.New("musicbrainz.user_agent is required"))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	return errors.Join(errs...)
}
