// Package soa implements the multi-pass structural parser for statement of
// account workbooks. Layout discovery is entirely heuristic: no column
// position, sheet name, or row offset is ever hard-coded.
package soa

import (
	"log/slog"
	"time"

	apperrors "soacli/internal/errors"
	"soacli/internal/grid"
	"soacli/pkg/contracts/domain"
)

// Options tune the parser heuristics.
type Options struct {
	// ReferenceDate anchors days-late derivation. When zero, the
	// document's own report date is used; if that is also absent the
	// derivation is skipped entirely. The core never reads the clock.
	ReferenceDate time.Time

	// AmountFallbackMin is the absolute value above which a stray number
	// is trusted as a transaction amount during the fallback scan. Known
	// to misfire on small-value sections, hence tunable.
	AmountFallbackMin float64

	// MetadataRows bounds the lead-window metadata scan.
	MetadataRows int

	// ExtraSectionKeywords extends the section-heading vocabulary for
	// statement formats the built-in list does not cover.
	ExtraSectionKeywords []string
}

// DefaultOptions returns the standard heuristic tuning.
func DefaultOptions() Options {
	return Options{
		AmountFallbackMin: 100,
		MetadataRows:      15,
	}
}

func (o Options) withDefaults() Options {
	if o.AmountFallbackMin <= 0 {
		o.AmountFallbackMin = 100
	}
	if o.MetadataRows <= 0 {
		o.MetadataRows = 15
	}
	return o
}

// Parser parses statement workbooks. It is safe for concurrent use: each
// Parse call allocates its own grid and document and shares no state.
type Parser struct {
	opts   Options
	logger *slog.Logger
}

// NewParser creates a parser with the given options.
func NewParser(logger *slog.Logger, opts Options) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		opts:   opts.withDefaults(),
		logger: logger.With(slog.String("component", "soa_parser")),
	}
}

// run is the per-call parse state.
type run struct {
	opts          Options
	classifier    *classifier
	referenceDate time.Time
	logger        *slog.Logger
}

// Parse decodes one workbook and extracts its document.
//
// A CorruptFile error aborts the parse with a nil document. A NoData error
// is non-fatal: it accompanies a valid, empty document whose metadata may
// still be populated. Sections whose columns cannot be located are skipped
// individually; the rest of the document still parses.
func (p *Parser) Parse(data []byte) (*domain.Document, error) {
	g, err := grid.Load(data)
	if err != nil {
		return nil, err
	}

	meta := scanMetadata(g, p.opts.MetadataRows)
	meta.SourceSheet = g.Sheet

	r := &run{
		opts:          p.opts,
		classifier:    newClassifier(p.opts.ExtraSectionKeywords),
		referenceDate: p.opts.ReferenceDate,
		logger:        p.logger,
	}
	if r.referenceDate.IsZero() && meta.ReportDate != nil {
		r.referenceDate = meta.ReportDate.Time
	}

	masterIdx, spans := r.classifier.segment(g)

	doc := &domain.Document{Metadata: meta}
	if masterIdx == -1 && len(spans) == 0 {
		p.logger.Warn("no header or section rows detected",
			slog.String("sheet", g.Sheet),
			slog.Int("rows", len(g.Rows)))
		finalize(doc)
		return doc, apperrors.NewNoDataError("no statement structure found in workbook")
	}

	var master *header
	if masterIdx >= 0 {
		h := newHeader(masterIdx, g.Rows[masterIdx])
		master = &h
	}

	// Sections sharing a label merge under it: boundaries stay distinct,
	// records land in one section, in document row order.
	index := make(map[string]int)
	for _, sp := range spans {
		sec, err := r.buildSection(g, sp, master)
		if err != nil {
			p.logger.Warn("section skipped",
				slog.String("section", sp.Name),
				slog.String("error", err.Error()))
			continue
		}
		if i, ok := index[sec.Name]; ok {
			doc.Sections[i].Records = append(doc.Sections[i].Records, sec.Records...)
			for k, v := range sec.Totals {
				doc.Sections[i].Totals[k] = v
			}
		} else {
			index[sec.Name] = len(doc.Sections)
			doc.Sections = append(doc.Sections, sec)
		}
	}

	finalize(doc)

	p.logger.Info("workbook parsed",
		slog.String("sheet", g.Sheet),
		slog.Int("sections", len(doc.Sections)),
		slog.Int("records", len(doc.Records)))
	return doc, nil
}

// finalize flattens records, recomputes grand totals, and fills the aging
// buckets. After this the document is immutable.
func finalize(doc *domain.Document) {
	doc.Records = doc.Records[:0]
	for _, sec := range doc.Sections {
		doc.Records = append(doc.Records, sec.Records...)
	}
	doc.GrandTotals = computeGrandTotals(doc.Sections, doc.Records)
	doc.Aging = computeAging(doc.Records)
}
