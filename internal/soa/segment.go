package soa

import (
	"soacli/internal/grid"
)

// span is one section boundary: rows [Start, End) belong to the section,
// with row Start being the section heading itself.
type span struct {
	Name  string
	Start int
	End   int
}

// segment walks the grid once, top to bottom, recording the first header
// row as the master header and every section-heading row as a boundary.
// Boundaries are contiguous, non-overlapping, and in row order; they are
// fixed before any record is built.
func (c *classifier) segment(g *grid.Grid) (masterHeader int, spans []span) {
	masterHeader = -1
	for ri, row := range g.Rows {
		if masterHeader == -1 && c.IsHeaderRow(row) {
			masterHeader = ri
			continue
		}
		if c.IsSectionHeader(row) {
			nonEmpty := nonEmptyCells(row)
			spans = append(spans, span{
				Name:  cellString(nonEmpty[0].Cell),
				Start: ri,
			})
		}
	}
	for i := range spans {
		if i+1 < len(spans) {
			spans[i].End = spans[i+1].Start
		} else {
			spans[i].End = len(g.Rows)
		}
	}
	return masterHeader, spans
}
