// Package service wires the pipeline stages into one batch run: read the
// source documents, parse, normalize, aggregate, classify, link, write.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillgraph/internal/adapters/repository"
	"github.com/okian/skillgraph/internal/domain/aggregate"
	"github.com/okian/skillgraph/internal/domain/dedupe"
	"github.com/okian/skillgraph/internal/domain/document"
	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/normalize"
	"github.com/okian/skillgraph/internal/domain/prereq"
	"github.com/okian/skillgraph/internal/domain/ritband"
	"github.com/okian/skillgraph/internal/domain/taxonomy"
	"github.com/okian/skillgraph/internal/domain/types"
	"github.com/okian/skillgraph/pkg/logger"
	"github.com/okian/skillgraph/pkg/metrics"
)

// Stage names used in logs and metrics.
const (
	StageRead     = "read"
	StageParse    = "parse"
	StageAggreg   = "aggregate"
	StageTaxonomy = "taxonomy"
	StageClassify = "classify"
	StageLink     = "link"
	StageWrite    = "write"
)

// ErrNoStores is returned by Run when no output store is configured.
var ErrNoStores = errors.New("no output store configured")

// Service runs the skill-graph pipeline.
type Service struct {
	sources      []document.Source
	taxonomyPath string
	stores       []repository.Store
	rigour       int

	logger  logger.Logger
	metrics *metrics.Manager
	summary io.Writer
}

// Result describes one completed run.
type Result struct {
	RunID string
	Items int
	Graph types.Graph
	Roots []types.UnitRoots
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rigour: prereq.DefaultRigourThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	return s
}

// Run builds the graph from scratch and writes it to every store. Nothing
// is written unless the whole graph was built.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if len(s.stores) == 0 {
		return Result{}, ErrNoStores
	}
	res, err := s.Build(ctx)
	if err != nil {
		return Result{}, err
	}
	log := s.log().With(logger.String("run_id", res.RunID))

	err = s.stage(ctx, log, StageWrite, func() error {
		for _, store := range s.stores {
			if err := store.Save(ctx, res.Graph); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if s.summary != nil {
		if err := Summarize(s.summary, res.Roots); err != nil {
			return Result{}, fmt.Errorf("write summary: %w", err)
		}
	}
	s.metrics.UpdateLastSuccess(time.Now())
	log.Info(ctx, "skill graph written",
		logger.Int("skills", len(res.Graph.Skills)),
		logger.Int("relationships", len(res.Graph.Relationships)))
	return res, nil
}

// Build runs every stage except writing.
func (s *Service) Build(ctx context.Context) (Result, error) {
	res := Result{RunID: newRunID()}
	log := s.log().With(logger.String("run_id", res.RunID))
	log.Info(ctx, "building skill graph", logger.Int("sources", len(s.sources)))

	var docs []document.Document
	if err := s.stage(ctx, log, StageRead, func() (err error) {
		docs, err = document.ReadSources(ctx, s.sources)
		return err
	}); err != nil {
		return Result{}, err
	}

	var tax *taxonomy.Taxonomy
	if err := s.stage(ctx, log, StageTaxonomy, func() (err error) {
		tax, err = taxonomy.Load(ctx, s.taxonomyPath)
		return err
	}); err != nil {
		return Result{}, err
	}

	agg := aggregate.New()
	s.step(ctx, log, StageParse, func() {
		parser := document.NewParser()
		bands := dedupe.New()
		for _, doc := range docs {
			items := parser.Parse(doc.Source, doc.Text)
			s.metrics.RecordItemsParsed(doc.Source.ID, len(items))
			log.Debug(ctx, "parsed document", logger.String("source", doc.Source.ID), logger.Int("items", len(items)))
			for _, it := range items {
				if it.RitBand != nil && bands.Add(it.RitBand.SourceID+"::"+it.RitBand.Label) {
					s.metrics.RecordRitBand(ritband.Shape(it.RitBand))
				}
				n := normalize.Normalize(it)
				if n.VerbFallback {
					s.metrics.RecordVerbFallback()
				}
				agg.Add(it, n)
			}
		}
	})
	res.Items = agg.Items()

	var nodes []model.SkillNode
	s.step(ctx, log, StageAggreg, func() {
		nodes = agg.Nodes()
		s.metrics.UpdateNodes(len(nodes))
		log.Info(ctx, "aggregated skills", logger.Int("items", res.Items), logger.Int("skills", len(nodes)))
	})

	s.step(ctx, log, StageClassify, func() {
		for i, a := range tax.ClassifyAll(nodes) {
			s.metrics.RecordClassification(a.UnitID, a.Stage)
			log.Debug(ctx, "classified skill",
				logger.String("skill", nodes[i].ID),
				logger.String("unit", a.UnitID),
				logger.String("stage", a.Stage))
		}
	})

	s.step(ctx, log, StageLink, func() {
		builder := prereq.NewBuilder(
			prereq.WithBridgeSources(tax),
			prereq.WithRigourThreshold(s.rigour),
		)
		edges, stats := builder.Build(nodes)
		for _, pass := range prereq.Passes {
			s.metrics.RecordEdgesAdded(pass, stats.Added[pass])
		}
		s.metrics.RecordEdgesDropped(stats.Dropped)
		s.metrics.UpdateEdges(len(edges))
		res.Graph = types.Graph{Skills: nodes, Relationships: edges}
		res.Roots = prereq.Roots(nodes, edges)
		for _, u := range res.Roots {
			s.metrics.UpdateRootNodes(u.UnitID, len(u.Roots))
		}
		log.Info(ctx, "linked skills",
			logger.Int("relationships", len(edges)),
			logger.Int("dropped", stats.Dropped))
	})

	return res, nil
}

// stage times fn and records failures under name.
func (s *Service) stage(ctx context.Context, log logger.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	took := time.Since(start)
	s.metrics.RecordStageDuration(name, took)
	if err != nil {
		s.metrics.RecordRunError(name)
		log.Error(ctx, "stage failed", logger.String("stage", name), logger.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug(ctx, "stage done", logger.String("stage", name), logger.Duration("took", took))
	return nil
}

// step times an in-memory stage that cannot fail.
func (s *Service) step(ctx context.Context, log logger.Logger, name string, fn func()) {
	start := time.Now()
	fn()
	took := time.Since(start)
	s.metrics.RecordStageDuration(name, took)
	log.Debug(ctx, "stage done", logger.String("stage", name), logger.Duration("took", took))
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		s.logger = logger.Named("skillgraph")
	}
	return s.logger
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
