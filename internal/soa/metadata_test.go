package soa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soacli/internal/grid"
)

func TestScanMetadata(t *testing.T) {
	g := &grid.Grid{Rows: [][]grid.Cell{
		{str("Statement of Account")},
		{str("Customer Name:"), blank(), str("ACME Industrial Ltd")},
		{str("Customer No:"), str("C-100245")},
		{str("Contact:"), str("finance@acme.example")},
		{str("LPI Rate"), str("8.5%")},
		{str("Average Days Late"), num(42)},
		{str("Today:"), dateCell(2025, time.March, 14)},
	}}

	meta := scanMetadata(g, 15)

	assert.Equal(t, "Statement of Account", meta.Title)
	assert.Equal(t, "ACME Industrial Ltd", meta.CustomerName)
	assert.Equal(t, "C-100245", meta.CustomerID)
	assert.Equal(t, "finance@acme.example", meta.Contact)

	require.NotNil(t, meta.LPIRate)
	assert.InDelta(t, 0.085, *meta.LPIRate, 1e-9)

	require.NotNil(t, meta.AvgDaysLate)
	assert.Equal(t, 42, *meta.AvgDaysLate)

	require.NotNil(t, meta.ReportDate)
	assert.Equal(t, "2025-03-14", meta.ReportDate.Format("2006-01-02"))
}

func TestScanMetadataCustomerNumberVariants(t *testing.T) {
	for _, label := range []string{"Customer No:", "Customer Nº", "Customer #"} {
		g := &grid.Grid{Rows: [][]grid.Cell{
			{str(label), str("12345")},
		}}
		meta := scanMetadata(g, 15)
		assert.Equal(t, "12345", meta.CustomerID, "label %q", label)
	}
}

func TestScanMetadataNameIsNotNumber(t *testing.T) {
	// "Customer No" must not populate the customer name.
	g := &grid.Grid{Rows: [][]grid.Cell{
		{str("Customer No:"), str("12345")},
		{str("Customer Name:"), str("ACME Corp")},
	}}
	meta := scanMetadata(g, 15)
	assert.Equal(t, "ACME Corp", meta.CustomerName)
	assert.Equal(t, "12345", meta.CustomerID)
}

func TestScanMetadataFirstMatchWins(t *testing.T) {
	g := &grid.Grid{Rows: [][]grid.Cell{
		{str("Customer Name:"), str("First Corp")},
		{str("Customer Name:"), str("Second Corp")},
	}}
	meta := scanMetadata(g, 15)
	assert.Equal(t, "First Corp", meta.CustomerName)
}

func TestScanMetadataRowLimit(t *testing.T) {
	g := &grid.Grid{Rows: [][]grid.Cell{
		{str("filler")},
		{str("filler")},
		{str("Customer Name:"), str("Beyond The Window")},
	}}
	meta := scanMetadata(g, 2)
	assert.Empty(t, meta.CustomerName)
}

func TestScanMetadataBareLPIFraction(t *testing.T) {
	g := &grid.Grid{Rows: [][]grid.Cell{
		{str("LPI"), num(0.065)},
	}}
	meta := scanMetadata(g, 15)
	require.NotNil(t, meta.LPIRate)
	assert.InDelta(t, 0.065, *meta.LPIRate, 1e-9)
}
