// Package config defines the generator configuration and how it is loaded.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading accepts context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

// Source is one standards document to parse.
type Source struct {
	// ID prefixes item ids and tags sources in the output.
	ID string `koanf:"id"`
	// Path is the document location, relative to the working directory.
	Path string `koanf:"path"`
	// GradeSpan labels every item of the document, e.g. "K-2".
	GradeSpan string `koanf:"grade_span"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// TaxonomyPath points at the unit taxonomy (JSON or YAML).
	TaxonomyPath string `koanf:"taxonomy_path"`

	// OutputDir receives skills.json and relationships.json.
	OutputDir string `koanf:"output_dir"`

	// SkillsFile and RelationshipsFile name the two JSON outputs.
	SkillsFile        string `koanf:"skills_file"`
	RelationshipsFile string `koanf:"relationships_file"`

	// Sources lists the documents to parse, in order. File only.
	Sources []Source `koanf:"sources"`

	// SQLitePath, when set, also mirrors the graph into an SQLite database.
	SQLitePath string `koanf:"sqlite_path"`

	// MetricsTextfile, when set, receives the run's metrics in textfile format.
	MetricsTextfile string `koanf:"metrics_textfile"`

	// RigourThreshold gates the cross-unit bridging pass. Must be positive.
	RigourThreshold int `koanf:"rigour_threshold"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBuckets overrides the stage duration buckets, in seconds. File only.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsLabels are constant labels added to every metric. File only.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config holding the repository-relative defaults, so a run
// without any configuration works from the repository root.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		TaxonomyPath:      "data/taxonomy.json",
		OutputDir:         "data/skill-graph",
		SkillsFile:        "skills.json",
		RelationshipsFile: "relationships.json",
		Sources: []Source{
			{ID: "k2", Path: "data/standards/k2-math.txt", GradeSpan: "K-2"},
			{ID: "g25", Path: "data/standards/2-5-math.txt", GradeSpan: "2-5"},
		},
		RigourThreshold:  160,
		MetricsNamespace: "skillgraph",
		MetricsSubsystem: "pipeline",
	}
}
