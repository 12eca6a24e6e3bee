package soa

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "soacli/internal/errors"
	"soacli/pkg/contracts/domain"
)

// buildWorkbook renders rows into an in-memory xlsx file. Dates are passed
// as day-first strings the way the source systems export them.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for ri, row := range rows {
		for ci, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func statementRows() [][]any {
	return [][]any{
		{"Statement of Account"},
		{"Customer Name:", "ACME Industrial Ltd"},
		{"Customer No:", "C-100245"},
		{},
		{"Company", "Account", "Reference", "Document Date", "Net Due Date", "Amount", "Curr", "Days Late", "R-R Comments"},
		{"TotalCare Charges"},
		{"ACME", "1001", "INV-1", "05/01/2025", "20/01/2025", 1500.50, "USD", nil, "Under approval with finance"},
		{"ACME", "1001", "INV-2", "06/01/2025", "25/02/2025", 250.75, "USD", nil, nil},
		{"Total:", nil, nil, nil, nil, 1751.25},
		{"Overdue:", nil, nil, nil, nil, 1500.50},
		{"SCC Credits"},
		{"ACME", "1001", "CN-1", "07/01/2025", nil, -300.00, "USD"},
		{"Total:", nil, nil, nil, nil, -300.00},
	}
}

func testParser(t *testing.T, opts Options) *Parser {
	t.Helper()
	return NewParser(nil, opts)
}

func TestParseStatement(t *testing.T) {
	data := buildWorkbook(t, statementRows())

	p := testParser(t, Options{
		ReferenceDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	})
	doc, err := p.Parse(data)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "ACME Industrial Ltd", doc.Metadata.CustomerName)
	assert.Equal(t, "C-100245", doc.Metadata.CustomerID)

	require.Len(t, doc.Sections, 2)
	charges, credits := doc.Sections[0], doc.Sections[1]

	assert.Equal(t, "TotalCare Charges", charges.Name)
	require.Len(t, charges.Records, 2)
	assert.Equal(t, map[string]float64{"total": 1751.25, "overdue": 1500.50}, charges.Totals)

	assert.Equal(t, "SCC Credits", credits.Name)
	require.Len(t, credits.Records, 1)
	assert.Equal(t, map[string]float64{"total": -300.00}, credits.Totals)

	inv1 := charges.Records[0]
	assert.Equal(t, "INV-1", inv1.Reference)
	assert.Equal(t, 1500.50, inv1.Amount)
	assert.Equal(t, domain.EntryCharge, inv1.EntryType)
	assert.Equal(t, "USD", inv1.Currency)
	require.NotNil(t, inv1.DocumentDate)
	assert.Equal(t, "2025-01-05", inv1.DocumentDate.Format("2006-01-02"))
	assert.Equal(t, "Under approval with finance", inv1.Status)

	cn1 := credits.Records[0]
	assert.Equal(t, domain.EntryCredit, cn1.EntryType)
	assert.Nil(t, cn1.DueDate)

	gt := doc.GrandTotals
	assert.InDelta(t, 1751.25, gt.TotalCharges, 1e-9)
	assert.InDelta(t, -300.00, gt.TotalCredits, 1e-9)
	assert.InDelta(t, 1451.25, gt.NetBalance, 1e-9)
	assert.Equal(t, 3, gt.ItemCount)
	assert.InDelta(t, gt.TotalCharges+gt.TotalCredits, gt.NetBalance, 1e-9)

	assert.Equal(t, map[string]float64{"TotalCare Charges": 1751.25, "SCC Credits": -300.00}, gt.SectionTotals)
	assert.Equal(t, map[string]float64{"TotalCare Charges": 1500.50}, gt.SectionOverdue)
	assert.InDelta(t, 1500.50, gt.TotalOverdue, 1e-9)
}

func TestParseDaysLateDerivation(t *testing.T) {
	ref := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	p := testParser(t, Options{ReferenceDate: ref})

	doc, err := p.Parse(buildWorkbook(t, statementRows()))
	require.NoError(t, err)

	records := doc.Sections[0].Records
	require.Len(t, records, 2)

	// Due 2025-01-20, 21 days before the reference date.
	require.NotNil(t, records[0].DaysLate)
	assert.Equal(t, 21, *records[0].DaysLate)

	// Due 2025-02-25, after the reference date: on time, not negative.
	require.NotNil(t, records[1].DaysLate)
	assert.Equal(t, 0, *records[1].DaysLate)

	// No due date at all: stays unknown.
	assert.Nil(t, doc.Sections[1].Records[0].DaysLate)
}

func TestParseDeterministic(t *testing.T) {
	data := buildWorkbook(t, statementRows())
	p := testParser(t, Options{
		ReferenceDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	})

	first, err := p.Parse(data)
	require.NoError(t, err)
	second, err := p.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseNoData(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Statement of Account"},
		{"Customer Name:", "ACME Corp"},
		{"Some free-form narrative that is not a table"},
	})

	doc, err := p0(t).Parse(data)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData))

	// The document still comes back with whatever metadata was found.
	require.NotNil(t, doc)
	assert.Equal(t, "ACME Corp", doc.Metadata.CustomerName)
	assert.Empty(t, doc.Records)
	assert.Equal(t, 0, doc.GrandTotals.ItemCount)
}

func p0(t *testing.T) *Parser {
	return testParser(t, DefaultOptions())
}

func TestParseCorruptFile(t *testing.T) {
	doc, err := p0(t).Parse([]byte("this is not a spreadsheet"))
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeCorruptFile))
}

func TestParseSectionWithoutColumnsIsSkipped(t *testing.T) {
	// No header row anywhere: every section is ambiguous and skipped, but
	// the parse itself does not fail.
	data := buildWorkbook(t, [][]any{
		{"TotalCare Charges"},
		{"something", 1500.50},
	})

	doc, err := p0(t).Parse(data)
	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
	assert.Empty(t, doc.Records)
}

func TestParseDuplicateSectionLabelsMerge(t *testing.T) {
	rows := [][]any{
		{"Company", "Account", "Reference", "Document Date", "Net Due Date", "Amount", "Curr"},
		{"Spare Parts Charges"},
		{"ACME", "1001", "INV-1", "05/01/2025", "20/01/2025", 100.00, "USD"},
		{"Interest Charges"},
		{"ACME", "1001", "INT-1", "05/01/2025", "20/01/2025", 10.00, "USD"},
		{"Spare Parts Charges"},
		{"ACME", "1001", "INV-2", "06/01/2025", "21/01/2025", 200.00, "USD"},
		{"Total:", nil, nil, nil, nil, 300.00},
	}

	doc, err := p0(t).Parse(buildWorkbook(t, rows))
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	spare := doc.Sections[0]
	assert.Equal(t, "Spare Parts Charges", spare.Name)
	require.Len(t, spare.Records, 2)
	assert.Equal(t, "INV-1", spare.Records[0].Reference)
	assert.Equal(t, "INV-2", spare.Records[1].Reference)
	assert.Equal(t, 300.00, spare.Totals["total"])

	assert.Equal(t, "Interest Charges", doc.Sections[1].Name)
}

func TestParseLocalHeaderOverridesMaster(t *testing.T) {
	rows := [][]any{
		{"Reference", "Document Date", "Net Due Date", "Amount", "Curr"},
		{"TotalCare Charges"},
		// This section carries its own header with a different layout.
		{"Amount", "Curr", "Reference", "Document Date", "Net Due Date"},
		{500.00, "USD", "INV-9", "05/01/2025", "20/01/2025"},
	}

	doc, err := p0(t).Parse(buildWorkbook(t, rows))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Records, 1)

	rec := doc.Sections[0].Records[0]
	assert.Equal(t, 500.00, rec.Amount)
	assert.Equal(t, "INV-9", rec.Reference)
	assert.Equal(t, "USD", rec.Currency)
}

func TestParseAmountFallbackThreshold(t *testing.T) {
	rows := func(amount float64) [][]any {
		return [][]any{
			{"Reference", "Document Date", "Net Due Date", "Amount", "Curr", "Value"},
			{"TotalCare Charges"},
			// The amount cell is blank; the number sits in an unmapped
			// column and is only picked up by the fallback scan.
			{"INV-1", "05/01/2025", "20/01/2025", nil, "USD", amount},
		}
	}

	t.Run("above the threshold", func(t *testing.T) {
		doc, err := p0(t).Parse(buildWorkbook(t, rows(2500)))
		require.NoError(t, err)
		require.Len(t, doc.Records, 1)
		assert.Equal(t, 2500.00, doc.Records[0].Amount)
	})

	t.Run("below the threshold", func(t *testing.T) {
		doc, err := p0(t).Parse(buildWorkbook(t, rows(40)))
		require.NoError(t, err)
		assert.Empty(t, doc.Records, "small stray numbers are not trusted as amounts")
	})

	t.Run("lower custom threshold", func(t *testing.T) {
		p := testParser(t, Options{AmountFallbackMin: 10})
		doc, err := p.Parse(buildWorkbook(t, rows(40)))
		require.NoError(t, err)
		require.Len(t, doc.Records, 1)
		assert.Equal(t, 40.00, doc.Records[0].Amount)
	})
}

func TestParseReportDateAnchorsDaysLate(t *testing.T) {
	rows := [][]any{
		{"Today:", "10/02/2025"},
		{"Reference", "Document Date", "Net Due Date", "Amount", "Curr"},
		{"TotalCare Charges"},
		{"INV-1", "05/01/2025", "20/01/2025", 1500.00, "USD"},
	}

	// No explicit reference date: the document's own report date anchors
	// the derivation.
	doc, err := p0(t).Parse(buildWorkbook(t, rows))
	require.NoError(t, err)
	require.Len(t, doc.Records, 1)
	require.NotNil(t, doc.Records[0].DaysLate)
	assert.Equal(t, 21, *doc.Records[0].DaysLate)
}

func TestParseAgingBuckets(t *testing.T) {
	mk := func(due string, amount float64) []any {
		return []any{"R", "05/01/2024", due, amount, "USD"}
	}
	rows := [][]any{
		{"Reference", "Document Date", "Net Due Date", "Amount", "Curr"},
		{"TotalCare Charges"},
		mk("09/02/2025", 10),  // 1 day late
		mk("01/01/2025", 20),  // 40 days late
		mk("01/12/2024", 30),  // 71 days late
		mk("01/06/2024", 40),  // well over 180
		mk("01/03/2025", 50),  // not yet due
		{"R", "05/01/2024", nil, 60.0, "USD"}, // unknown
	}

	p := testParser(t, Options{
		ReferenceDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	})
	doc, err := p.Parse(buildWorkbook(t, rows))
	require.NoError(t, err)
	require.Len(t, doc.Records, 6)

	b := doc.Aging
	assert.Equal(t, 50.0, b.Current)
	assert.Equal(t, 10.0, b.Days1To30)
	assert.Equal(t, 20.0, b.Days31To60)
	assert.Equal(t, 30.0, b.Days61To90)
	assert.Equal(t, 40.0, b.Over180)
	assert.Equal(t, 60.0, b.Unknown)
	assert.Equal(t, 0.0, b.Days91To180)
}

func TestParsedDocumentJSONNulls(t *testing.T) {
	doc, err := p0(t).Parse(buildWorkbook(t, [][]any{
		{"Reference", "Document Date", "Net Due Date", "Amount", "Curr"},
		{"TotalCare Charges"},
		{"INV-1", "05/01/2025", nil, 1500.00, "USD"},
	}))
	require.NoError(t, err)
	require.Len(t, doc.Records, 1)

	out, err := json.Marshal(doc.Records[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"due_date":null`)
	assert.Contains(t, string(out), `"days_late":null`)
	assert.Contains(t, string(out), `"document_date":"2025-01-05"`)
}
