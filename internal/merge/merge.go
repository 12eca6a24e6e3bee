// Package merge combines several parsed statement documents into a single
// cross-file view. Merging is purely derived state: the per-document results
// are never mutated, and the merged view is recomputed from scratch for each
// source selection.
package merge

import (
	"fmt"
	"strings"

	"soacli/pkg/contracts/domain"
)

// Source pairs a parsed document with the display name of the file it came
// from. Names must be unique within one merge call.
type Source struct {
	Name string
	Doc  *domain.Document
}

// Merge builds a combined view over the given sources, in order. With more
// than one source, section names are qualified as "{source} - {section}" so
// same-named sections from different files stay distinct; with a single
// source the original section names are kept.
func Merge(sources []Source) *domain.MergedView {
	view := &domain.MergedView{
		Sources:  make([]string, 0, len(sources)),
		Metadata: make([]domain.Metadata, 0, len(sources)),
	}
	qualify := len(sources) > 1

	for _, src := range sources {
		view.Sources = append(view.Sources, src.Name)

		meta := src.Doc.Metadata
		meta.SourceFile = src.Name
		view.Metadata = append(view.Metadata, meta)

		for _, sec := range src.Doc.Sections {
			name := sec.Name
			if qualify {
				name = fmt.Sprintf("%s - %s", src.Name, sec.Name)
			}
			merged := domain.Section{
				Name:    name,
				Records: make([]domain.Record, 0, len(sec.Records)),
				Totals:  make(map[string]float64, len(sec.Totals)),
			}
			for _, rec := range sec.Records {
				rec.Section = name
				rec.SourceFile = src.Name
				merged.Records = append(merged.Records, rec)
				view.Records = append(view.Records, rec)
			}
			for label, v := range sec.Totals {
				merged.Totals[label] = v
			}
			view.Sections = append(view.Sections, merged)
		}
	}

	view.GrandTotals = mergedTotals(view, sources)
	return view
}

// mergedTotals recomputes grand totals over the combined record set. The
// overall overdue figure prefers the sum of each source's own total overdue;
// only when every source reported zero does it fall back to the merged net
// balance.
func mergedTotals(view *domain.MergedView, sources []Source) domain.GrandTotals {
	gt := domain.GrandTotals{
		SectionTotals:    make(map[string]float64),
		SectionOverdue:   make(map[string]float64),
		AvailableCredits: make(map[string]float64),
	}

	for _, rec := range view.Records {
		if rec.Amount > 0 {
			gt.TotalCharges += rec.Amount
		} else {
			gt.TotalCredits += rec.Amount
		}
		gt.NetBalance += rec.Amount
	}
	gt.ItemCount = len(view.Records)

	for _, sec := range view.Sections {
		for label, v := range sec.Totals {
			switch {
			case strings.Contains(label, "total overdue"):
				// Source-level total overdue is handled below.
			case strings.Contains(label, "overdue"):
				gt.SectionOverdue[sec.Name] = v
			case strings.Contains(label, "available credit"):
				gt.AvailableCredits[sec.Name] = v
			case strings.Contains(label, "total"):
				gt.SectionTotals[sec.Name] = v
			}
		}
	}

	overdue := 0.0
	for _, src := range sources {
		overdue += src.Doc.GrandTotals.TotalOverdue
	}
	if overdue != 0 {
		gt.TotalOverdue = overdue
	} else {
		gt.TotalOverdue = gt.NetBalance
	}
	return gt
}
