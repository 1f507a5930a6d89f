package ingest

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all tender feeds.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig defines HTTP fetching configuration for a feed.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // Default: 30
	MaxRetries     int    `yaml:"max_retries,omitempty"`     // Default: 2
	AcceptLanguage string `yaml:"accept_language,omitempty"`
}

// SourceConfig defines a single tender feed.
type SourceConfig struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Strategy        string `yaml:"strategy"` // "json_feed", "static_sample"
	FeedURL         string `yaml:"feed_url,omitempty"`
	FeedPath        string `yaml:"feed_path,omitempty"` // Local file alternative to feed_url
	DefaultCurrency string `yaml:"default_currency,omitempty"`
	Schedule        string `yaml:"schedule,omitempty"`
	Description     string `yaml:"description,omitempty"`

	Fetch FetchConfig `yaml:"fetch,omitempty"`
}

// LoadRegistry reads the embedded sources.yaml and returns a Registry.
// A non-empty path overrides the embedded copy for local development.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if path != "" {
		if fsData, fsErr := os.ReadFile(path); fsErr == nil {
			data, err = fsData, nil
		}
	}
	if err != nil {
		return nil, err
	}

	// Expand environment variables within the YAML content (e.g. ${FEED_URL})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// Find returns the config for a source ID, or an error naming it.
func (r *Registry) Find(sourceID string) (SourceConfig, error) {
	for _, src := range r.Sources {
		if src.ID == sourceID {
			return src, nil
		}
	}
	return SourceConfig{}, fmt.Errorf("unknown source %q", sourceID)
}

// NewProvider builds the Provider for a configured source.
func NewProvider(cfg SourceConfig) (Provider, error) {
	switch cfg.Strategy {
	case "static_sample":
		return NewSampleProvider(cfg), nil
	case "json_feed":
		return NewJSONFeedProvider(cfg), nil
	default:
		return nil, fmt.Errorf("source %s: unknown strategy %q", cfg.ID, cfg.Strategy)
	}
}
