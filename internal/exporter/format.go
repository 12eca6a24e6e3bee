package exporter

import (
	"fmt"
	"math"

	"soacli/pkg/contracts/domain"
)

// formatFloat renders an amount with exactly 2 decimal places so values
// like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i)
}

func formatDate(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}

// FormatCurrency renders an amount in a short human form for summary
// output: 1.2M, 340.5K, or plain with 2 decimals below a thousand.
func FormatCurrency(f float64) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", f/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", f/1_000)
	default:
		return formatFloat(f)
	}
}
