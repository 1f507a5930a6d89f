package match

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/profile.yaml
var profileYAML embed.FS

// ServiceCategory is one line of business the provider offers, with the
// keyword fingerprint used for text matching.
type ServiceCategory struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
}

// Profile is the static, declarative description of the service provider.
// It is the only tunable input of the engine and must be treated as frozen
// once constructed; the scoring functions never mutate it, so a single
// Profile may be shared across goroutines.
type Profile struct {
	Services         []ServiceCategory `yaml:"services"`
	Exclusions       []string          `yaml:"exclusions"`
	PreferredSectors []string          `yaml:"preferred_sectors"`
}

// NewProfile validates a profile and normalizes its keyword sets to
// lowercase. A misconfigured profile is an operator error and fails fast
// here rather than being tolerated per-record at scoring time.
func NewProfile(services []ServiceCategory, exclusions, sectors []string) (*Profile, error) {
	if len(services) == 0 {
		return nil, fmt.Errorf("profile has no service categories")
	}

	normalized := make([]ServiceCategory, 0, len(services))
	for _, svc := range services {
		if strings.TrimSpace(svc.Name) == "" {
			return nil, fmt.Errorf("service category with empty name")
		}
		if len(svc.Keywords) == 0 {
			return nil, fmt.Errorf("service category %q has no keywords", svc.Name)
		}
		if svc.Weight <= 0 {
			return nil, fmt.Errorf("service category %q has non-positive weight %v", svc.Name, svc.Weight)
		}

		seen := make(map[string]struct{}, len(svc.Keywords))
		keywords := make([]string, 0, len(svc.Keywords))
		for _, kw := range svc.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("service category %q has an empty keyword", svc.Name)
			}
			if _, dup := seen[kw]; dup {
				return nil, fmt.Errorf("service category %q has duplicate keyword %q", svc.Name, kw)
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}

		normalized = append(normalized, ServiceCategory{
			Name:     strings.TrimSpace(svc.Name),
			Keywords: keywords,
			Weight:   svc.Weight,
		})
	}

	return &Profile{
		Services:         normalized,
		Exclusions:       lowerAll(exclusions),
		PreferredSectors: lowerAll(sectors),
	}, nil
}

// LoadProfile reads the embedded profile.yaml and returns a validated
// Profile. The path parameter allows a filesystem override for local
// development and per-tenant deployments.
func LoadProfile(path string) (*Profile, error) {
	data, err := profileYAML.ReadFile("config/profile.yaml")
	if path != "" {
		if fileData, fileErr := os.ReadFile(path); fileErr == nil {
			data, err = fileData, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var raw Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return NewProfile(raw.Services, raw.Exclusions, raw.PreferredSectors)
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
