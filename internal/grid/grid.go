// Package grid decodes spreadsheet bytes into a dense, typed 2-D cell grid.
// It is the only package that touches the workbook format; everything above
// it works on plain cells.
package grid

import (
	"strings"
	"time"
)

// Kind is the decoded type of a single cell.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
	KindBool
)

// Cell is one decoded spreadsheet cell. Text is always populated with the
// raw textual form; Number, Time, and Bool are valid only for their kind.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
	Bool   bool
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindNull || (c.Kind == KindString && strings.TrimSpace(c.Text) == "")
}

// Trimmed returns the cell text with surrounding whitespace removed.
func (c Cell) Trimmed() string {
	return strings.TrimSpace(c.Text)
}

// Grid is a dense rows-by-cols matrix of typed cells from one worksheet.
type Grid struct {
	Sheet string
	Rows  [][]Cell
}

// NonEmpty returns the positions and cells of the non-empty cells in row r.
func (g *Grid) NonEmpty(r int) []IndexedCell {
	if r < 0 || r >= len(g.Rows) {
		return nil
	}
	var out []IndexedCell
	for i, c := range g.Rows[r] {
		if !c.IsEmpty() {
			out = append(out, IndexedCell{Col: i, Cell: c})
		}
	}
	return out
}

// IndexedCell pairs a cell with its column position.
type IndexedCell struct {
	Col  int
	Cell Cell
}
