package service

import (
	"io"

	"github.com/okian/skillgraph/internal/adapters/repository"
	"github.com/okian/skillgraph/internal/domain/document"
	"github.com/okian/skillgraph/pkg/logger"
	"github.com/okian/skillgraph/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the documents to parse, in order.
func WithSources(sources ...document.Source) Option {
	return func(s *Service) {
		s.sources = append([]document.Source(nil), sources...)
	}
}

// WithTaxonomyPath sets the taxonomy file.
func WithTaxonomyPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.taxonomyPath = path
		}
	}
}

// WithStores sets where the finished graph is written. Stores are written in
// order; the first failure aborts the run.
func WithStores(stores ...repository.Store) Option {
	return func(s *Service) {
		s.stores = append(s.stores, stores...)
	}
}

// WithRigourThreshold sets the bridging threshold of the graph builder.
// Non-positive values keep prereq.DefaultRigourThreshold.
func WithRigourThreshold(v int) Option {
	return func(s *Service) {
		if v > 0 {
			s.rigour = v
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Without it each Service records on a
// private manager nobody exports.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSummaryWriter sets where the root-node summary is printed.
func WithSummaryWriter(w io.Writer) Option {
	return func(s *Service) {
		s.summary = w
	}
}
