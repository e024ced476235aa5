package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/skillgraph/internal/adapters/repository"
	service "github.com/okian/skillgraph/internal/app"
	"github.com/okian/skillgraph/internal/config"
	"github.com/okian/skillgraph/internal/domain/document"
	"github.com/okian/skillgraph/pkg/logger"
	"github.com/okian/skillgraph/pkg/metrics"
)

var errUnexpectedArgs = errors.New("skillgraph takes no arguments")

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads configuration, builds the skill graph and writes it out. The
// root-node summary goes to stdout; logs go to stderr.
func run(stdout io.Writer, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %v", errUnexpectedArgs, args)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("skillgraph")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	stores := []repository.Store{
		repository.NewJSONStore(cfg.OutputDir, repository.WithFileNames(cfg.SkillsFile, cfg.RelationshipsFile)),
	}
	if cfg.SQLitePath != "" {
		db, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn(ctx, "close sqlite store", logger.Error(err))
			}
		}()
		stores = append(stores, db)
	}

	sources := make([]document.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, document.Source{ID: s.ID, Path: s.Path, GradeSpan: s.GradeSpan})
	}

	m := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
		metrics.WithCustomLabels(cfg.MetricsLabels),
	)

	svc := service.New(
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithSources(sources...),
		service.WithTaxonomyPath(cfg.TaxonomyPath),
		service.WithStores(stores...),
		service.WithRigourThreshold(cfg.RigourThreshold),
		service.WithSummaryWriter(stdout),
	)
	_, runErr := svc.Run(ctx)

	// Metrics are dumped for failed runs too; run_errors_total says where it broke.
	if cfg.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn(ctx, "write metrics textfile", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
		}
	}
	return runErr
}
