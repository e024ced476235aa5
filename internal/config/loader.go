package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix = "SKILLGRAPH_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SKILLGRAPH_CONFIG is set
//  3. env (prefix SKILLGRAPH_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SKILLGRAPH_OUTPUT_DIR -> output_dir (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// A configured source list replaces the defaults instead of merging
	// into them element by element.
	if k.Exists("sources") {
		cfg.Sources = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.TaxonomyPath) == "" {
		return fmt.Errorf("%w: taxonomy_path must not be empty", ErrInvalidConfig)
	}
	for _, name := range []string{c.SkillsFile, c.RelationshipsFile} {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: output file names must be plain file names, got %q", ErrInvalidConfig, name)
		}
	}
	if c.SkillsFile == c.RelationshipsFile {
		return fmt.Errorf("%w: skills_file and relationships_file must differ", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.RigourThreshold <= 0 {
		return fmt.Errorf("%w: rigour_threshold must be positive, got %d", ErrInvalidConfig, c.RigourThreshold)
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidSource)
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("%w: source %d needs an id and a path", ErrInvalidSource, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate source id %q", ErrInvalidSource, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateMetrics rejects settings the Prometheus client would panic on.
func (c *Config) validateMetrics() error {
	parts := [][2]string{{"metrics_namespace", c.MetricsNamespace}, {"metrics_subsystem", c.MetricsSubsystem}}
	for _, p := range parts {
		if p[1] != "" && !metricNameRe.MatchString(p[1]) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, p[0], p[1])
		}
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	for name := range c.MetricsLabels {
		if !metricNameRe.MatchString(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("%w: metrics_labels key %q is not a valid label name", ErrInvalidConfig, name)
		}
	}
	return nil
}
