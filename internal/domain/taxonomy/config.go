package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unit is one curriculum unit rule as declared in the taxonomy file.
type Unit struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Keywords      []string `json:"keywords" yaml:"keywords"`
	Priority      int      `json:"priority" yaml:"priority"`
	BridgeSources []string `json:"bridgeSources,omitempty" yaml:"bridgeSources,omitempty"`
}

// DefaultUnit receives nodes no rule claims.
type DefaultUnit struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Config is the decoded taxonomy file.
type Config struct {
	Units       []Unit      `json:"units" yaml:"units"`
	DefaultUnit DefaultUnit `json:"defaultUnit" yaml:"defaultUnit"`
}

// Load reads a taxonomy file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func Load(ctx context.Context, path string) (*Taxonomy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadTaxonomy, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadTaxonomy, path, err)
	}
	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Compile(cfg)
}

// Decode parses taxonomy bytes; ext selects the format (".yaml", ".yml" or JSON).
func Decode(data []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrLoadTaxonomy, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrLoadTaxonomy, err)
		}
	}
	return cfg, nil
}

// Validate checks unit ids and the default unit.
func (c Config) Validate() error {
	if len(c.Units) == 0 {
		return fmt.Errorf("%w: no units", ErrInvalidTaxonomy)
	}
	seen := make(map[string]struct{}, len(c.Units))
	for i, u := range c.Units {
		if strings.TrimSpace(u.ID) == "" {
			return fmt.Errorf("%w: unit %d has no id", ErrInvalidTaxonomy, i)
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("%w: duplicate unit id %q", ErrInvalidTaxonomy, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	if strings.TrimSpace(c.DefaultUnit.ID) == "" {
		return fmt.Errorf("%w: default unit has no id", ErrInvalidTaxonomy)
	}
	return nil
}
