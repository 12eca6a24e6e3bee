package soa

import (
	"strconv"
	"strings"
	"time"

	"soacli/internal/grid"
)

// dateLayouts are tried in order when a date arrives as text rather than a
// date-styled cell. Day-first layouts come first because the source systems
// emit them that way.
var dateLayouts = []string{
	"02/01/2006", "01/02/2006", "2006-01-02", "02-01-2006",
	"2006/01/02", "02.01.2006", "01.02.2006",
	"02/01/06", "01/02/06",
}

// parseAmountText parses a currency-like string, tolerating thousands
// separators, currency symbols and accounting-style parentheses.
func parseAmountText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return 0, false
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// cellNumber extracts a numeric value from a cell. Date and boolean cells
// are never numbers here; text is parsed leniently.
func cellNumber(c grid.Cell) (float64, bool) {
	switch c.Kind {
	case grid.KindNumber:
		return c.Number, true
	case grid.KindString:
		return parseAmountText(c.Text)
	}
	return 0, false
}

// cellInt extracts an integer, truncating fractional values.
func cellInt(c grid.Cell) (int, bool) {
	n, ok := cellNumber(c)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// cellDate extracts a calendar date from a date-styled cell or from text in
// one of the known layouts.
func cellDate(c grid.Cell) (time.Time, bool) {
	switch c.Kind {
	case grid.KindDate:
		return c.Time, true
	case grid.KindString:
		s := c.Trimmed()
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// cellString renders a cell as trimmed display text. Whole numbers drop
// their fractional part so reference columns stay readable.
func cellString(c grid.Cell) string {
	switch c.Kind {
	case grid.KindNumber:
		if c.Number == float64(int64(c.Number)) {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case grid.KindDate:
		return c.Time.Format("2006-01-02")
	case grid.KindBool:
		return strconv.FormatBool(c.Bool)
	}
	return c.Trimmed()
}
