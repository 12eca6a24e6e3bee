package soa

import (
	"strings"
	"time"

	"soacli/internal/grid"
	apperrors "soacli/internal/errors"
	"soacli/pkg/contracts/domain"
)

// statusKeywords drive the unified Status derivation. When a comment or
// owner field contains one of these, the whole field value becomes the
// record's status.
var statusKeywords = []string{
	"ready for payment", "under approval", "under review",
	"dispute", "ongoing", "et to process", "payment pending",
	"invoice sent", "credit note", "approved",
	"transfer", "invoice approved", "pending for payment",
}

// header pairs a header row's cells with the column map derived from them.
type header struct {
	rowIdx int
	cols   map[field]int
}

func newHeader(rowIdx int, cells []grid.Cell) header {
	return header{rowIdx: rowIdx, cols: mapColumns(cells)}
}

// buildSection extracts one section's records and summary totals from its
// span. The section commits atomically: it is either fully built or skipped
// with an AmbiguousColumn error, never half populated.
//
// A header row inside the span reassigns the active column map for the rows
// after it; summary rows feed the totals map; spacer rows (no resolvable
// amount) are skipped silently.
func (p *run) buildSection(g *grid.Grid, sp span, master *header) (domain.Section, error) {
	sec := domain.Section{
		Name:   sp.Name,
		Totals: make(map[string]float64),
	}

	hdr := master
	for offset := 1; offset <= 3; offset++ {
		ri := sp.Start + offset
		if ri >= sp.End {
			break
		}
		if p.classifier.IsHeaderRow(g.Rows[ri]) {
			h := newHeader(ri, g.Rows[ri])
			hdr = &h
			break
		}
	}
	if hdr == nil {
		return sec, apperrors.NewAmbiguousColumnError(sp.Name)
	}
	cols := hdr.cols
	if _, ok := cols[fieldAmount]; !ok {
		return sec, apperrors.NewAmbiguousColumnError(sp.Name).
			WithContext("missing", string(fieldAmount))
	}

	dataStart := sp.Start + 1
	if hdr.rowIdx >= sp.Start {
		dataStart = hdr.rowIdx + 1
	}

	for ri := dataStart; ri < sp.End; ri++ {
		row := g.Rows[ri]
		if rowIsEmpty(row) {
			continue
		}

		if label, ok := p.classifier.MatchSummaryRow(row); ok {
			for _, cell := range row {
				if n, ok := cellNumber(cell); ok {
					sec.Totals[label] = n
					break
				}
			}
			continue
		}
		if p.classifier.IsSectionHeader(row) {
			continue
		}
		if p.classifier.IsHeaderRow(row) {
			cols = mapColumns(row)
			continue
		}

		amount, ok := p.resolveAmount(row, cols)
		if !ok {
			continue // spacer row
		}

		rec := p.buildRecord(sp.Name, row, cols, amount)
		sec.Records = append(sec.Records, rec)
	}
	return sec, nil
}

// resolveAmount reads the mapped amount column, falling back to a scan over
// every cell for the first number that is either larger than the fallback
// threshold or provably not the days-late value. Small integers in an
// unmapped column are more likely a days count than a transaction amount.
func (p *run) resolveAmount(row []grid.Cell, cols map[field]int) (float64, bool) {
	if idx, ok := cols[fieldAmount]; ok && idx < len(row) {
		if n, ok := cellNumber(row[idx]); ok {
			return n, true
		}
	}

	daysIdx, hasDays := cols[fieldDaysLate]
	for ci, cell := range row {
		n, ok := cellNumber(cell)
		if !ok || (n < 0.01 && n > -0.01) {
			continue
		}
		if n > p.opts.AmountFallbackMin || n < -p.opts.AmountFallbackMin ||
			(hasDays && ci != daysIdx) {
			return n, true
		}
	}
	return 0, false
}

// buildRecord populates one line item from a data row.
func (p *run) buildRecord(section string, row []grid.Cell, cols map[field]int, amount float64) domain.Record {
	get := func(f field) (grid.Cell, bool) {
		idx, ok := cols[f]
		if !ok || idx >= len(row) || row[idx].IsEmpty() {
			return grid.Cell{}, false
		}
		return row[idx], true
	}
	getString := func(f field) string {
		if c, ok := get(f); ok {
			return cellString(c)
		}
		return ""
	}
	getDate := func(f field) *domain.Date {
		if c, ok := get(f); ok {
			if t, ok := cellDate(c); ok {
				return domain.NewDate(t)
			}
		}
		return nil
	}

	rec := domain.Record{
		Section:          section,
		Amount:           amount,
		Company:          getString(fieldCompany),
		Account:          getString(fieldAccount),
		Reference:        getString(fieldReference),
		DocumentDate:     getDate(fieldDocDate),
		DueDate:          getDate(fieldDueDate),
		Currency:         getString(fieldCurrency),
		Text:             getString(fieldText),
		Assignment:       getString(fieldAssignment),
		RRComments:       getString(fieldRRComments),
		ActionOwner:      getString(fieldActionOwner),
		CustomerComments: getString(fieldCustomerComments),
		Status:           getString(fieldStatus),
		POReference:      getString(fieldPOReference),
		Type:             getString(fieldType),
		DocumentNo:       getString(fieldDocNo),
		InterestMethod:   getString(fieldInterestMethod),
		CustomerName:     getString(fieldCustomerName),
	}

	if c, ok := get(fieldDaysLate); ok {
		if n, ok := cellInt(c); ok {
			rec.DaysLate = &n
		}
	}
	if c, ok := get(fieldLPICumulated); ok {
		if n, ok := cellNumber(c); ok {
			rec.LPICumulated = &n
		}
	}

	if amount < 0 {
		rec.EntryType = domain.EntryCredit
	} else {
		rec.EntryType = domain.EntryCharge
	}

	p.deriveDaysLate(&rec)
	deriveStatus(&rec)
	return rec
}

// deriveDaysLate computes DaysLate from DueDate when the column was absent.
// The reference date is supplied by the caller, never read from the clock,
// so reparsing the same bytes always yields the same document.
func (p *run) deriveDaysLate(rec *domain.Record) {
	if rec.DaysLate != nil || rec.DueDate == nil {
		return
	}
	ref := p.referenceDate
	if ref.IsZero() {
		return
	}
	ref = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	days := 0
	if rec.DueDate.Time.Before(ref) {
		days = int(ref.Sub(rec.DueDate.Time).Hours() / 24)
		if days < 0 {
			days = 0
		}
	}
	rec.DaysLate = &days
}

// deriveStatus fills an empty Status from the comment fields. The first
// field containing a status keyword contributes its full value; failing
// that, the R-R comment is taken verbatim.
func deriveStatus(rec *domain.Record) {
	if rec.Status != "" {
		return
	}
	for _, v := range []string{rec.RRComments, rec.ActionOwner, rec.CustomerComments} {
		if v == "" {
			continue
		}
		vl := strings.ToLower(v)
		for _, kw := range statusKeywords {
			if strings.Contains(vl, kw) {
				rec.Status = v
				return
			}
		}
	}
	rec.Status = rec.RRComments
}
