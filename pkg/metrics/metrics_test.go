package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it gets its own registry and default names", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
				So(manager.Registry(), ShouldNotEqual, NewManager().Registry())
				So(manager.namespace, ShouldEqual, "skillgraph")
				So(manager.subsystem, ShouldEqual, "pipeline")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("graph"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.UpdateNodes(3)

			Convey("Then metrics are registered under the custom names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_graph_skill_nodes")
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(nil))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "skillgraph")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.registry, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a fresh manager", t, func() {
		m := NewManager()

		Convey("When pipeline counts are recorded", func() {
			m.RecordItemsParsed("k2", 4)
			m.RecordItemsParsed("k2", 2)
			m.RecordRitBand("closed")
			m.RecordVerbFallback()
			m.UpdateNodes(7)
			m.RecordClassification("geometry", "keywords")
			m.RecordEdgesAdded("descriptor", 5)
			m.RecordEdgesDropped(1)
			m.UpdateEdges(4)
			m.UpdateRootNodes("geometry", 2)
			m.RecordStageDuration("parse", 20*time.Millisecond)
			m.RecordRunError("write")
			m.UpdateLastSuccess(time.Unix(1700000000, 0))

			Convey("Then each metric reflects them", func() {
				So(testutil.ToFloat64(m.itemsParsed.WithLabelValues("k2")), ShouldEqual, 6)
				So(testutil.ToFloat64(m.ritBands.WithLabelValues("closed")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.verbFallbacks), ShouldEqual, 1)
				So(testutil.ToFloat64(m.nodes), ShouldEqual, 7)
				So(testutil.ToFloat64(m.classifications.WithLabelValues("geometry", "keywords")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.edgesAdded.WithLabelValues("descriptor")), ShouldEqual, 5)
				So(testutil.ToFloat64(m.edgesDropped), ShouldEqual, 1)
				So(testutil.ToFloat64(m.edges), ShouldEqual, 4)
				So(testutil.ToFloat64(m.rootNodes.WithLabelValues("geometry")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.runErrors.WithLabelValues("write")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.lastSuccess), ShouldEqual, 1700000000)
				So(testutil.CollectAndCount(m.stageDuration), ShouldEqual, 1)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded values", t, func() {
		m := NewManager()
		m.UpdateNodes(42)

		Convey("When the registry is written to a textfile", func() {
			path := filepath.Join(t.TempDir(), "skillgraph.prom")
			err := m.WriteTextfile(path)

			Convey("Then the file holds the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "skillgraph_pipeline_skill_nodes 42")
			})
		})

		Convey("When the target directory does not exist", func() {
			err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))

			Convey("Then a wrapped error is returned", func() {
				So(errors.Is(err, ErrWriteTextfile), ShouldBeTrue)
				So(strings.Contains(err.Error(), "missing"), ShouldBeTrue)
			})
		})
	})
}
