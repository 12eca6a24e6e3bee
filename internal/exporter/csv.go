// Package exporter renders parsed statement records into flat output
// formats for download and for the CLI.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"soacli/pkg/contracts/domain"
)

// recordHeaders is the column order of the records CSV.
var recordHeaders = []string{
	"section",
	"source_file",
	"company",
	"account",
	"reference",
	"document_no",
	"document_date",
	"due_date",
	"amount",
	"entry_type",
	"currency",
	"days_late",
	"status",
	"text",
	"assignment",
	"rr_comments",
	"action_owner",
	"customer_comments",
	"po_reference",
	"lpi_cumulated",
	"type",
	"interest_method",
	"customer_name",
}

// WriteRecordsCSV writes the records as CSV. Dates are ISO formatted and
// absent numeric values stay empty rather than zero.
func WriteRecordsCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(recordHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, rec := range records {
		row := []string{
			rec.Section,
			rec.SourceFile,
			rec.Company,
			rec.Account,
			rec.Reference,
			rec.DocumentNo,
			formatDate(rec.DocumentDate),
			formatDate(rec.DueDate),
			formatFloat(rec.Amount),
			string(rec.EntryType),
			rec.Currency,
			formatOptionalInt(rec.DaysLate),
			rec.Status,
			rec.Text,
			rec.Assignment,
			rec.RRComments,
			rec.ActionOwner,
			rec.CustomerComments,
			rec.POReference,
			formatOptionalFloat(rec.LPICumulated),
			rec.Type,
			rec.InterestMethod,
			rec.CustomerName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
