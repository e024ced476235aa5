// Package metrics provides Prometheus metrics for the skill-graph pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every pipeline metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         *prometheus.Registry

	// Parsing
	itemsParsed   *prometheus.CounterVec
	ritBands      *prometheus.CounterVec
	verbFallbacks prometheus.Counter

	// Graph
	nodes           prometheus.Gauge
	classifications *prometheus.CounterVec
	edgesAdded      *prometheus.CounterVec
	edgesDropped    prometheus.Counter
	edges           prometheus.Gauge
	rootNodes       *prometheus.GaugeVec

	// Run
	stageDuration *prometheus.HistogramVec
	runErrors     *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// NewManager creates a metrics manager registered on its own registry
// unless one is supplied. Every run builds its own manager, so the registry
// only ever holds that run's metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillgraph",
		subsystem:        "pipeline",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		customLabels:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.itemsParsed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "items_parsed_total",
		Help: "Numbered skill items parsed, by source document",
	}, []string{"source"})

	m.ritBands = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "rit_bands_total",
		Help: "RIT band headers parsed, by shape",
	}, []string{"shape"})

	m.verbFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "verb_fallbacks_total",
		Help: "Skill items whose leading verb was not in the vocabulary",
	})

	m.nodes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "skill_nodes",
		Help: "Skill nodes produced by the last run",
	})

	m.classifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "classifications_total",
		Help: "Unit assignments, by unit and deciding stage",
	}, []string{"unit", "stage"})

	m.edgesAdded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "edges_added_total",
		Help: "Prerequisite edges added, by pass",
	}, []string{"pass"})

	m.edgesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "edges_dropped_total",
		Help: "Cross-unit edges removed from unit entry nodes",
	})

	m.edges = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "relationships",
		Help: "Prerequisite edges written by the last run",
	})

	m.rootNodes = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "root_nodes",
		Help: "Nodes without prerequisites, by unit",
	}, []string{"unit"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "stage_duration_seconds",
		Help:    "Wall time spent in each pipeline stage",
		Buckets: m.histogramBuckets,
	}, []string{"stage"})

	m.runErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "run_errors_total",
		Help: "Failed runs, by stage",
	}, []string{"stage"})

	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "last_success_timestamp_seconds",
		Help: "Unix time of the last successful run",
	})
}

// RecordItemsParsed adds n parsed items for source.
func (m *Manager) RecordItemsParsed(source string, n int) {
	m.itemsParsed.WithLabelValues(source).Add(float64(n))
}

// RecordRitBand counts a band header of the given shape.
func (m *Manager) RecordRitBand(shape string) {
	m.ritBands.WithLabelValues(shape).Inc()
}

// RecordVerbFallback counts an unrecognized leading verb.
func (m *Manager) RecordVerbFallback() {
	m.verbFallbacks.Inc()
}

// UpdateNodes sets the node count.
func (m *Manager) UpdateNodes(n int) {
	m.nodes.Set(float64(n))
}

// RecordClassification counts a unit assignment.
func (m *Manager) RecordClassification(unit, stage string) {
	m.classifications.WithLabelValues(unit, stage).Inc()
}

// RecordEdgesAdded adds n edges for pass.
func (m *Manager) RecordEdgesAdded(pass string, n int) {
	m.edgesAdded.WithLabelValues(pass).Add(float64(n))
}

// RecordEdgesDropped adds n filtered edges.
func (m *Manager) RecordEdgesDropped(n int) {
	m.edgesDropped.Add(float64(n))
}

// UpdateEdges sets the edge count.
func (m *Manager) UpdateEdges(n int) {
	m.edges.Set(float64(n))
}

// UpdateRootNodes sets the root count of unit.
func (m *Manager) UpdateRootNodes(unit string, n int) {
	m.rootNodes.WithLabelValues(unit).Set(float64(n))
}

// RecordStageDuration observes how long stage took.
func (m *Manager) RecordStageDuration(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRunError counts a failed run in stage.
func (m *Manager) RecordRunError(stage string) {
	m.runErrors.WithLabelValues(stage).Inc()
}

// UpdateLastSuccess records the completion time of a successful run.
func (m *Manager) UpdateLastSuccess(t time.Time) {
	m.lastSuccess.Set(float64(t.Unix()))
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
// The file is written atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}
