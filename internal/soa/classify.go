package soa

import (
	"strings"

	"soacli/internal/grid"
)

// headerKeywords signal a column header row. A handful of hits among the
// short cells of a row is enough; no single keyword is required.
var headerKeywords = []string{
	"company", "account", "reference", "document", "date", "amount", "curr",
	"text", "assignment", "arrangement", "comments", "status", "action",
	"days", "late", "lpi", "invoice", "type", "interest", "net due",
}

// sectionKeywords signal a section heading row.
var sectionKeywords = []string{
	"charges", "credits", "credit", "totalcare", "familycare", "missioncare",
	"spare parts", "late payment", "interest", "customer respon",
	"customer responsibility", "usable", "offset",
}

// summaryLabels are matched exactly (after trimming, lowercasing, and
// stripping a trailing colon). Exact matching is what keeps a section name
// like "TotalCare" from being misread as a "total" summary row.
var summaryLabels = map[string]bool{
	"total":            true,
	"overdue":          true,
	"available credit": true,
	"total overdue":    true,
	"net balance":      true,
}

// classifier labels grid rows. All three predicates are total: they never
// fail, they only answer.
type classifier struct {
	sectionKeywords []string
}

func newClassifier(extraSectionKeywords []string) *classifier {
	kws := make([]string, 0, len(sectionKeywords)+len(extraSectionKeywords))
	kws = append(kws, sectionKeywords...)
	for _, kw := range extraSectionKeywords {
		kws = append(kws, strings.ToLower(strings.TrimSpace(kw)))
	}
	return &classifier{sectionKeywords: kws}
}

// IsHeaderRow reports whether the row looks like a column header row:
// at least four non-empty cells, no large numeric values, and at least
// three short cells carrying a header keyword.
func (c *classifier) IsHeaderRow(row []grid.Cell) bool {
	var nonEmpty []grid.Cell
	for _, cell := range row {
		if !cell.IsEmpty() {
			nonEmpty = append(nonEmpty, cell)
		}
	}
	if len(nonEmpty) < 4 {
		return false
	}
	for _, cell := range nonEmpty {
		if n, ok := cellNumber(cell); ok && (n > 100 || n < -100) {
			return false
		}
	}
	var shortTexts []string
	for _, cell := range nonEmpty {
		t := cellString(cell)
		if len(t) < 35 {
			shortTexts = append(shortTexts, strings.ToLower(t))
		}
	}
	if len(shortTexts) < 3 {
		return false
	}
	hits := 0
	for _, t := range shortTexts {
		for _, kw := range headerKeywords {
			if strings.Contains(t, kw) {
				hits++
				break
			}
		}
	}
	return hits >= 3
}

// IsSectionHeader reports whether the row looks like a section heading:
// at most three non-empty cells whose leading text is a known section
// keyword and not a summary label.
func (c *classifier) IsSectionHeader(row []grid.Cell) bool {
	nonEmpty := nonEmptyCells(row)
	if len(nonEmpty) == 0 || len(nonEmpty) > 3 {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(cellString(nonEmpty[0].Cell)))
	if _, ok := parseAmountText(text); ok {
		return false
	}
	clean := strings.TrimSuffix(text, ":")
	if summaryLabels[clean] {
		return false
	}

	// A two-cell "<label> <number>" pair whose label smells like a summary
	// is a summary row with a decorated label, not a section.
	if len(nonEmpty) == 2 {
		if _, ok := cellNumber(nonEmpty[1].Cell); ok {
			for _, sw := range []string{"total", "overdue", "credit", "balance"} {
				if strings.Contains(clean, sw) {
					return false
				}
			}
		}
	}

	for _, kw := range c.sectionKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MatchSummaryRow returns the summary label ("total", "overdue", ...) when
// some single cell's text equals one exactly, else ok=false.
func (c *classifier) MatchSummaryRow(row []grid.Cell) (string, bool) {
	for _, cell := range row {
		if cell.IsEmpty() {
			continue
		}
		t := strings.TrimSuffix(strings.ToLower(cellString(cell)), ":")
		if len(t) > 25 {
			continue
		}
		if summaryLabels[t] {
			return t, true
		}
	}
	return "", false
}

func nonEmptyCells(row []grid.Cell) []grid.IndexedCell {
	var out []grid.IndexedCell
	for i, cell := range row {
		if !cell.IsEmpty() {
			out = append(out, grid.IndexedCell{Col: i, Cell: cell})
		}
	}
	return out
}

func rowIsEmpty(row []grid.Cell) bool {
	for _, cell := range row {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}
