package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/okian/skillgraph/internal/adapters/repository"
	service "github.com/okian/skillgraph/internal/app"
	"github.com/okian/skillgraph/internal/domain/document"
	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/prereq"
	"github.com/okian/skillgraph/internal/domain/taxonomy"
	"github.com/okian/skillgraph/internal/domain/types"
	"github.com/okian/skillgraph/pkg/logger"
	"github.com/okian/skillgraph/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

const taxonomyPath = "../../data/taxonomy.json"

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func repoSources() []document.Source {
	return []document.Source{
		{ID: "k2", Path: "../../data/standards/k2-math.txt", GradeSpan: "K-2"},
		{ID: "g25", Path: "../../data/standards/2-5-math.txt", GradeSpan: "2-5"},
	}
}

func newService(dir string, sources []document.Source, extra ...service.Option) *service.Service {
	opts := []service.Option{
		service.WithSources(sources...),
		service.WithTaxonomyPath(taxonomyPath),
		service.WithStores(repository.NewJSONStore(dir)),
		service.WithMetrics(metrics.NewManager()),
	}
	return service.New(append(opts, extra...)...)
}

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be created", func() {
			So(svc, ShouldNotBeNil)
		})

		Convey("And running it without a store should fail", func() {
			_, err := svc.Run(context.Background())
			So(errors.Is(err, service.ErrNoStores), ShouldBeTrue)
		})
	})
}

func TestService_Run(t *testing.T) {
	Convey("Given the bundled standards documents", t, func() {
		dir := t.TempDir()
		var summary bytes.Buffer
		svc := newService(dir, repoSources(), service.WithSummaryWriter(&summary))

		Convey("When running the pipeline", func() {
			res, err := svc.Run(context.Background())
			So(err, ShouldBeNil)

			Convey("Then it should produce skills and relationships", func() {
				So(res.RunID, ShouldNotBeEmpty)
				So(res.Items, ShouldBeGreaterThanOrEqualTo, len(res.Graph.Skills))
				So(len(res.Graph.Skills), ShouldBeGreaterThan, 0)
				So(len(res.Graph.Relationships), ShouldBeGreaterThan, 0)
			})

			Convey("And both output files should exist", func() {
				for _, name := range []string{repository.SkillsFile, repository.RelationshipsFile} {
					info, statErr := os.Stat(filepath.Join(dir, name))
					So(statErr, ShouldBeNil)
					So(info.Size(), ShouldBeGreaterThan, 0)
				}
			})

			Convey("And every skill should sit in exactly one known unit", func() {
				tax, loadErr := taxonomy.Load(context.Background(), taxonomyPath)
				So(loadErr, ShouldBeNil)
				for _, n := range res.Graph.Skills {
					known := tax.Has(n.UnitID) || n.UnitID == tax.Default().ID
					So(known, ShouldBeTrue)
					So(n.UnitName, ShouldNotBeEmpty)
				}
			})

			Convey("And no edge should loop or point to an easier skill", func() {
				byID := make(map[string]model.SkillNode, len(res.Graph.Skills))
				for _, n := range res.Graph.Skills {
					byID[n.ID] = n
				}
				for _, e := range res.Graph.Relationships {
					So(e.From, ShouldNotEqual, e.To)
					So(prereq.CompareByDifficulty(byID[e.From], byID[e.To]), ShouldBeLessThanOrEqualTo, 0)
				}
			})

			Convey("And the summary should list every unit with roots", func() {
				out := summary.String()
				So(out, ShouldStartWith, "Root skills:")
				for _, u := range res.Roots {
					So(out, ShouldContainSubstring, u.UnitID)
				}
			})
		})
	})
}

func TestService_Determinism(t *testing.T) {
	Convey("Given two runs over the same inputs", t, func() {
		dirA, dirB := t.TempDir(), t.TempDir()
		_, errA := newService(dirA, repoSources()).Run(context.Background())
		_, errB := newService(dirB, repoSources()).Run(context.Background())
		So(errA, ShouldBeNil)
		So(errB, ShouldBeNil)

		Convey("Then the written files should be byte-identical", func() {
			for _, name := range []string{repository.SkillsFile, repository.RelationshipsFile} {
				a, err := os.ReadFile(filepath.Join(dirA, name))
				So(err, ShouldBeNil)
				b, err := os.ReadFile(filepath.Join(dirB, name))
				So(err, ShouldBeNil)
				So(bytes.Equal(a, b), ShouldBeTrue)
			}
		})
	})
}

func TestService_MissingSource(t *testing.T) {
	Convey("Given a source file that does not exist", t, func() {
		dir := t.TempDir()
		out := filepath.Join(dir, "out")
		sources := []document.Source{{ID: "gone", Path: filepath.Join(dir, "missing.txt"), GradeSpan: "K-2"}}
		svc := newService(out, sources)

		Convey("When running the pipeline", func() {
			_, err := svc.Run(context.Background())

			Convey("Then it should fail with a read error", func() {
				So(errors.Is(err, document.ErrReadSource), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, service.StageRead)
			})

			Convey("And nothing should be written", func() {
				_, statErr := os.Stat(filepath.Join(out, repository.SkillsFile))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})

	Convey("Given a taxonomy file that does not exist", t, func() {
		dir := t.TempDir()
		svc := service.New(
			service.WithSources(repoSources()...),
			service.WithTaxonomyPath(filepath.Join(dir, "none.json")),
			service.WithStores(repository.NewJSONStore(dir)),
			service.WithMetrics(metrics.NewManager()),
		)

		Convey("Then the run should fail with a taxonomy error", func() {
			_, err := svc.Run(context.Background())
			So(errors.Is(err, taxonomy.ErrLoadTaxonomy), ShouldBeTrue)
		})
	})
}

func TestService_Build(t *testing.T) {
	Convey("Given a time-telling skill under a measurement domain", t, func() {
		dir := t.TempDir()
		path := writeDoc(t, dir, "time.txt", strings.Join([]string{
			"Measurement and Data",
			"RIT Score: 161-170",
			"Measurement and Data",
			"Work with time and money",
			"1. Tell time to the nearest 5 minutes",
			"",
		}, "\n"))
		svc := newService(dir, []document.Source{{ID: "t", Path: path, GradeSpan: "2-5"}})

		Convey("When building the graph", func() {
			res, err := svc.Build(context.Background())
			So(err, ShouldBeNil)

			Convey("Then the skill should land in measurement and data", func() {
				So(res.Graph.Skills, ShouldHaveLength, 1)
				So(res.Graph.Skills[0].UnitID, ShouldEqual, taxonomy.UnitMeasurementData)
				So(res.Graph.Relationships, ShouldBeEmpty)
			})

			Convey("And nothing should be written", func() {
				_, statErr := os.Stat(filepath.Join(dir, repository.SkillsFile))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})
	})

	Convey("Given the same skill listed in two documents", t, func() {
		dir := t.TempDir()
		a := writeDoc(t, dir, "a.txt", "Operations\nRIT Score: 141-150\nAddition\nAdding small numbers\n1. Add within 10\n")
		b := writeDoc(t, dir, "b.txt", "Operations\nRIT Score: less than 150\nAddition\nAdding small numbers\n4. Add within 10\n")
		svc := newService(dir, []document.Source{
			{ID: "a", Path: a, GradeSpan: "K-2"},
			{ID: "b", Path: b, GradeSpan: "2-5"},
		})

		Convey("When building the graph", func() {
			res, err := svc.Build(context.Background())
			So(err, ShouldBeNil)

			Convey("Then both items should merge into one node", func() {
				So(res.Items, ShouldEqual, 2)
				So(res.Graph.Skills, ShouldHaveLength, 1)
				n := res.Graph.Skills[0]
				So(n.Sources, ShouldHaveLength, 2)
				So(n.GradeSpans, ShouldResemble, []string{"2-5", "K-2"})
				So(slices.Contains(n.Samples, "Add within 10"), ShouldBeTrue)
			})
		})
	})
}

func TestService_StageMetrics(t *testing.T) {
	Convey("Given a service with its own metrics manager", t, func() {
		m := metrics.NewManager()
		svc := service.New(
			service.WithSources(repoSources()...),
			service.WithTaxonomyPath(taxonomyPath),
			service.WithMetrics(m),
		)

		Convey("When building the graph", func() {
			_, err := svc.Build(context.Background())
			So(err, ShouldBeNil)

			Convey("Then every stage up to linking is timed once", func() {
				families, gatherErr := m.Registry().Gather()
				So(gatherErr, ShouldBeNil)
				var stages []string
				for _, f := range families {
					if f.GetName() != "skillgraph_pipeline_stage_duration_seconds" {
						continue
					}
					for _, metric := range f.GetMetric() {
						So(metric.GetHistogram().GetSampleCount(), ShouldEqual, 1)
						for _, l := range metric.GetLabel() {
							stages = append(stages, l.GetValue())
						}
					}
				}
				slices.Sort(stages)
				So(stages, ShouldResemble, []string{
					service.StageAggreg, service.StageClassify, service.StageLink,
					service.StageParse, service.StageRead, service.StageTaxonomy,
				})
			})
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given roots for two units", t, func() {
		roots := []types.UnitRoots{
			{UnitID: "a", UnitName: "Alpha", Roots: []model.SkillNode{
				{Title: "One"}, {Title: "Two"}, {Title: "Three"}, {Title: "Four"},
			}},
			{UnitID: "b", UnitName: "Beta", Roots: []model.SkillNode{{Title: "Solo"}}},
		}

		Convey("When summarizing", func() {
			var buf bytes.Buffer
			So(service.Summarize(&buf, roots), ShouldBeNil)

			Convey("Then counts and at most three titles should be printed", func() {
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldEqual, "Root skills: 5 across 2 units")
				So(lines[1], ShouldEqual, "  a (Alpha): 4 | One; Two; Three")
				So(lines[2], ShouldEqual, "  b (Beta): 1 | Solo")
			})
		})
	})
}
