package exporter

import (
	"fmt"
	"io"

	"soacli/pkg/contracts/domain"
)

// WriteSummary renders a short human-readable overview of a parsed
// document, used by the CLI.
func WriteSummary(w io.Writer, doc *domain.Document) error {
	meta := doc.Metadata
	if meta.CustomerName != "" {
		fmt.Fprintf(w, "Customer:     %s\n", meta.CustomerName)
	}
	if meta.CustomerID != "" {
		fmt.Fprintf(w, "Customer ID:  %s\n", meta.CustomerID)
	}
	if meta.ReportDate != nil {
		fmt.Fprintf(w, "Report date:  %s\n", meta.ReportDate.Format("2006-01-02"))
	}
	if meta.LPIRate != nil {
		fmt.Fprintf(w, "LPI rate:     %.2f%%\n", *meta.LPIRate*100)
	}

	fmt.Fprintln(w)
	for _, sec := range doc.Sections {
		fmt.Fprintf(w, "%-40s %4d items", sec.Name, len(sec.Records))
		if total, ok := sec.Totals["total"]; ok {
			fmt.Fprintf(w, "  total %s", FormatCurrency(total))
		}
		fmt.Fprintln(w)
	}

	gt := doc.GrandTotals
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Charges:      %s\n", FormatCurrency(gt.TotalCharges))
	fmt.Fprintf(w, "Credits:      %s\n", FormatCurrency(gt.TotalCredits))
	fmt.Fprintf(w, "Net balance:  %s\n", FormatCurrency(gt.NetBalance))
	fmt.Fprintf(w, "Overdue:      %s\n", FormatCurrency(gt.TotalOverdue))
	fmt.Fprintf(w, "Line items:   %d\n", gt.ItemCount)

	b := doc.Aging
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Aging  current %s | 1-30 %s | 31-60 %s | 61-90 %s | 91-180 %s | 180+ %s | unknown %s\n",
		FormatCurrency(b.Current),
		FormatCurrency(b.Days1To30),
		FormatCurrency(b.Days31To60),
		FormatCurrency(b.Days61To90),
		FormatCurrency(b.Days91To180),
		FormatCurrency(b.Over180),
		FormatCurrency(b.Unknown))
	return nil
}
