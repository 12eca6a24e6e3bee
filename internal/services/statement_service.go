// Package services wires the statement parser, the in-memory store, and the
// merger into the operations the transport layer exposes.
package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "soacli/internal/errors"
	"soacli/internal/infrastructure"
	"soacli/internal/merge"
	"soacli/internal/soa"
	"soacli/pkg/contracts/domain"
)

// maxConcurrentParses bounds the workbook parses running at once for one
// upload batch.
const maxConcurrentParses = 4

// Upload is one workbook file received from a client.
type Upload struct {
	Name string
	Data []byte
}

// StatementService parses uploaded workbooks and serves stored results.
type StatementService struct {
	parser  *soa.Parser
	store   *Store
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewStatementService creates the service. Metrics may be nil in tests and
// in the CLI.
func NewStatementService(parser *soa.Parser, store *Store, metrics *infrastructure.Metrics, logger *slog.Logger) *StatementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementService{
		parser:  parser,
		store:   store,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "statement_service")),
	}
}

// ParseUploads parses each upload concurrently and stores every result that
// produced a document. A workbook with no recognizable line items is stored
// with a warning rather than rejected; a corrupt workbook fails the whole
// batch. Results come back in upload order.
func (s *StatementService) ParseUploads(ctx context.Context, uploads []Upload) ([]*StoredStatement, error) {
	if len(uploads) == 0 {
		return nil, apperrors.NewValidationError("no files uploaded", nil)
	}

	results := make([]*StoredStatement, len(uploads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentParses)
	for i, up := range uploads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			doc, err := s.parser.Parse(up.Data)
			s.observeParse(time.Since(start), doc, err)

			warning := ""
			if err != nil {
				if !apperrors.IsType(err, apperrors.ErrTypeNoData) {
					s.logger.ErrorContext(ctx, "workbook parse failed",
						slog.String("file", up.Name),
						slog.String("error", err.Error()))
					return err
				}
				warning = err.Error()
				s.logger.WarnContext(ctx, "workbook parsed without line items",
					slog.String("file", up.Name))
			}
			doc.Metadata.SourceFile = up.Name

			results[i] = s.store.Put(up.Name, doc, warning)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.StoredDocuments.Set(float64(s.store.Len()))
	}
	return results, nil
}

// List returns all stored statements in upload order.
func (s *StatementService) List(ctx context.Context) []*StoredStatement {
	return s.store.List()
}

// Get returns one stored statement by ID.
func (s *StatementService) Get(ctx context.Context, id string) (*StoredStatement, error) {
	return s.store.Get(id)
}

// Delete removes one stored statement by ID.
func (s *StatementService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.StoredDocuments.Set(float64(s.store.Len()))
	}
	return nil
}

// Merged builds the combined view over the selected statement IDs. An empty
// selection means all stored statements.
func (s *StatementService) Merged(ctx context.Context, ids []string) (*domain.MergedView, error) {
	var entries []*StoredStatement
	if len(ids) == 0 {
		entries = s.store.List()
	} else {
		for _, id := range ids {
			entry, err := s.store.Get(id)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return nil, apperrors.NewNoDataError("no statements available to merge")
	}

	sources := make([]merge.Source, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, merge.Source{Name: entry.FileName, Doc: entry.Document})
	}
	return merge.Merge(sources), nil
}

func (s *StatementService) observeParse(elapsed time.Duration, doc *domain.Document, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ParseDuration.Observe(elapsed.Seconds())
	switch {
	case err == nil:
		s.metrics.ParsesTotal.WithLabelValues("ok").Inc()
	case apperrors.IsType(err, apperrors.ErrTypeNoData):
		s.metrics.ParsesTotal.WithLabelValues("no_data").Inc()
	default:
		s.metrics.ParsesTotal.WithLabelValues("error").Inc()
	}
	if doc != nil {
		s.metrics.RecordsExtracted.Add(float64(len(doc.Records)))
	}
}
