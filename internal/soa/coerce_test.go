package soa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soacli/internal/grid"
)

func TestParseAmountText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1500.50", 1500.50, true},
		{"1,234,567.89", 1234567.89, true},
		{"$2,000", 2000, true},
		{" 42 ", 42, true},
		{"(300.25)", -300.25, true},
		{"-17.5", -17.5, true},
		{"", 0, false},
		{"-", 0, false},
		{"n/a", 0, false},
		{"12/01/2025", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAmountText(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "input %q", tt.in)
		}
	}
}

func TestCellNumberKinds(t *testing.T) {
	n, ok := cellNumber(num(12.5))
	require.True(t, ok)
	assert.Equal(t, 12.5, n)

	n, ok = cellNumber(str("1,200"))
	require.True(t, ok)
	assert.Equal(t, 1200.0, n)

	_, ok = cellNumber(dateCell(2025, time.January, 5))
	assert.False(t, ok, "date cells are never numbers")

	_, ok = cellNumber(grid.Cell{Kind: grid.KindBool, Bool: true})
	assert.False(t, ok)
}

func TestCellDate(t *testing.T) {
	d, ok := cellDate(dateCell(2025, time.January, 5))
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), d)

	// Day-first layouts take priority over month-first.
	d, ok = cellDate(str("05/01/2025"))
	require.True(t, ok)
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 5, d.Day())

	d, ok = cellDate(str("2025-03-14"))
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())

	_, ok = cellDate(str("not a date"))
	assert.False(t, ok)

	_, ok = cellDate(num(45000))
	assert.False(t, ok, "bare serial numbers are not trusted as dates")
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "1001", cellString(num(1001)))
	assert.Equal(t, "10.5", cellString(num(10.5)))
	assert.Equal(t, "2025-01-05", cellString(dateCell(2025, time.January, 5)))
	assert.Equal(t, "hello", cellString(str("  hello  ")))
	assert.Equal(t, "true", cellString(grid.Cell{Kind: grid.KindBool, Bool: true}))
}
