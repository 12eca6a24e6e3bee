// Command soaparse parses one or more statement of account workbooks from
// the command line and prints the result as JSON, CSV, or a short summary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"soacli/internal/config"
	"soacli/internal/exporter"
	"soacli/internal/infrastructure"
	"soacli/internal/merge"
	"soacli/internal/soa"
	"soacli/pkg/contracts/domain"
)

func main() {
	output := flag.String("format", "summary", "output format: summary, json, or csv")
	refDate := flag.String("ref-date", "", "reference date for days-late derivation (YYYY-MM-DD, defaults to each document's report date)")
	fallbackMin := flag.Float64("amount-min", 100, "minimum magnitude for the amount fallback scan")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: soaparse [flags] file.xlsx [file2.xlsx ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := infrastructure.MustInitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "text",
		Output: "stderr",
	})

	opts := soa.DefaultOptions()
	opts.AmountFallbackMin = *fallbackMin
	if *refDate != "" {
		t, err := time.Parse("2006-01-02", *refDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -ref-date %q: %v\n", *refDate, err)
			os.Exit(2)
		}
		opts.ReferenceDate = t
	}

	parser := soa.NewParser(logger, opts)

	sources := make([]merge.Source, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("cannot read workbook", "file", path, "error", err)
			os.Exit(1)
		}

		doc, err := parser.Parse(data)
		if err != nil && doc == nil {
			slog.Error("parse failed", "file", path, "error", err)
			os.Exit(1)
		}
		if err != nil {
			slog.Warn("no line items found", "file", path)
		}

		name := filepath.Base(path)
		doc.Metadata.SourceFile = name
		sources = append(sources, merge.Source{Name: name, Doc: doc})
	}

	if err := emit(*output, sources); err != nil {
		slog.Error("output failed", "error", err)
		os.Exit(1)
	}
}

func emit(format string, sources []merge.Source) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(sources) == 1 {
			return enc.Encode(sources[0].Doc)
		}
		return enc.Encode(merge.Merge(sources))

	case "csv":
		var records []domain.Record
		if len(sources) == 1 {
			records = sources[0].Doc.Records
		} else {
			records = merge.Merge(sources).Records
		}
		return exporter.WriteRecordsCSV(os.Stdout, records)

	case "summary":
		for i, src := range sources {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("== %s ==\n", src.Name)
			if err := exporter.WriteSummary(os.Stdout, src.Doc); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
