package soa

import (
	"regexp"
	"strings"

	"soacli/internal/grid"
	"soacli/pkg/contracts/domain"
)

// customerNumberPattern matches "Customer No", "Customer Nº", "Customer N:"
// and friends without also matching "Customer Name".
var customerNumberPattern = regexp.MustCompile(`customer\s+n[oº°:]`)

// scanMetadata reads document-level fields from the lead rows of the grid.
// The first match per field wins; later rows never override.
func scanMetadata(g *grid.Grid, maxRows int) domain.Metadata {
	var meta domain.Metadata

	limit := len(g.Rows)
	if limit > maxRows {
		limit = maxRows
	}

	for ri := 0; ri < limit; ri++ {
		row := g.Rows[ri]
		for ci, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			s := cellString(cell)
			sl := strings.ToLower(s)

			if meta.Title == "" && strings.Contains(sl, "statement of account") {
				meta.Title = s
			}
			if meta.CustomerName == "" && strings.Contains(sl, "customer") &&
				(strings.Contains(sl, "name") || strings.Contains(sl, ":")) &&
				!customerNumberPattern.MatchString(sl) {
				if v, ok := lookRight(row, ci); ok {
					meta.CustomerName = cellString(v)
				}
			}
			if meta.CustomerID == "" && strings.Contains(sl, "customer") &&
				(strings.Contains(sl, "#") || customerNumberPattern.MatchString(sl)) {
				if v, ok := lookRight(row, ci); ok {
					meta.CustomerID = cellString(v)
				}
			}
			if meta.Contact == "" && strings.Contains(sl, "contact") {
				if v, ok := lookRight(row, ci); ok {
					meta.Contact = cellString(v)
				}
			}
			if meta.LPIRate == nil &&
				(strings.Contains(sl, "lpi") || strings.Contains(sl, "lp rate") || strings.Contains(sl, "lp ratio")) {
				if rate, ok := scanLPIRate(row); ok {
					meta.LPIRate = &rate
				}
			}
			if meta.AvgDaysLate == nil &&
				(strings.Contains(sl, "average days late") || strings.Contains(sl, "avg days late")) {
				if days, ok := scanPositiveInt(row); ok {
					meta.AvgDaysLate = &days
				}
			}
			if meta.ReportDate == nil && strings.Contains(sl, "today") {
				for _, c := range row {
					if d, ok := cellDate(c); ok {
						meta.ReportDate = domain.NewDate(d)
						break
					}
				}
			}
		}
	}
	return meta
}

// lookRight returns the nearest non-empty cell to the right of col.
func lookRight(row []grid.Cell, col int) (grid.Cell, bool) {
	for i := col + 1; i < len(row); i++ {
		if !row[i].IsEmpty() {
			return row[i], true
		}
	}
	return grid.Cell{}, false
}

// scanLPIRate finds the late payment interest rate on a marker row: either a
// "%" cell divided by 100, or a bare decimal fraction in (0, 1).
func scanLPIRate(row []grid.Cell) (float64, bool) {
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		if c.Kind == grid.KindString && strings.Contains(c.Text, "%") {
			if n, ok := parseAmountText(strings.ReplaceAll(c.Text, "%", "")); ok {
				return n / 100.0, true
			}
		}
		if n, ok := cellNumber(c); ok && n > 0 && n < 1 {
			return n, true
		}
	}
	return 0, false
}

func scanPositiveInt(row []grid.Cell) (int, bool) {
	for _, c := range row {
		if c.IsEmpty() {
			continue
		}
		if n, ok := cellInt(c); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}
