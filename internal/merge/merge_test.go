package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soacli/pkg/contracts/domain"
)

func doc(sections ...domain.Section) *domain.Document {
	d := &domain.Document{Sections: sections}
	for _, sec := range sections {
		d.Records = append(d.Records, sec.Records...)
	}
	for _, r := range d.Records {
		if r.Amount > 0 {
			d.GrandTotals.TotalCharges += r.Amount
		} else {
			d.GrandTotals.TotalCredits += r.Amount
		}
		d.GrandTotals.NetBalance += r.Amount
	}
	d.GrandTotals.ItemCount = len(d.Records)
	return d
}

func section(name string, totals map[string]float64, amounts ...float64) domain.Section {
	sec := domain.Section{Name: name, Totals: totals}
	for _, a := range amounts {
		sec.Records = append(sec.Records, domain.Record{Section: name, Amount: a})
	}
	return sec
}

func TestMergeSingleSourceKeepsNames(t *testing.T) {
	d := doc(section("Spare Parts Charges", map[string]float64{"total": 300}, 100, 200))

	view := Merge([]Source{{Name: "jan.xlsx", Doc: d}})

	assert.Equal(t, []string{"jan.xlsx"}, view.Sources)
	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Spare Parts Charges", view.Sections[0].Name, "single source stays unqualified")

	require.Len(t, view.Records, 2)
	for _, r := range view.Records {
		assert.Equal(t, "jan.xlsx", r.SourceFile)
		assert.Equal(t, "Spare Parts Charges", r.Section)
	}
}

func TestMergeTwoSourcesQualifiesSections(t *testing.T) {
	jan := doc(section("Spare Parts Charges", map[string]float64{"total": 300, "overdue": 100}, 100, 200))
	feb := doc(
		section("Spare Parts Charges", map[string]float64{"total": 50}, 50),
		section("SCC Credits", map[string]float64{"total": -20}, -20),
	)

	view := Merge([]Source{
		{Name: "jan.xlsx", Doc: jan},
		{Name: "feb.xlsx", Doc: feb},
	})

	require.Len(t, view.Sections, 3)
	assert.Equal(t, "jan.xlsx - Spare Parts Charges", view.Sections[0].Name)
	assert.Equal(t, "feb.xlsx - Spare Parts Charges", view.Sections[1].Name)
	assert.Equal(t, "feb.xlsx - SCC Credits", view.Sections[2].Name)

	// Same-named sections from different files stay distinct.
	assert.Len(t, view.Sections[0].Records, 2)
	assert.Len(t, view.Sections[1].Records, 1)

	for _, r := range view.Sections[1].Records {
		assert.Equal(t, "feb.xlsx", r.SourceFile)
		assert.Equal(t, "feb.xlsx - Spare Parts Charges", r.Section)
	}

	gt := view.GrandTotals
	assert.InDelta(t, 350.0, gt.TotalCharges, 1e-9)
	assert.InDelta(t, -20.0, gt.TotalCredits, 1e-9)
	assert.InDelta(t, 330.0, gt.NetBalance, 1e-9)
	assert.Equal(t, 4, gt.ItemCount)
	assert.InDelta(t, gt.TotalCharges+gt.TotalCredits, gt.NetBalance, 1e-9)

	assert.Equal(t, map[string]float64{
		"jan.xlsx - Spare Parts Charges": 300,
		"feb.xlsx - Spare Parts Charges": 50,
		"feb.xlsx - SCC Credits":         -20,
	}, gt.SectionTotals)
	assert.Equal(t, map[string]float64{"jan.xlsx - Spare Parts Charges": 100}, gt.SectionOverdue)
}

func TestMergeTotalOverduePrefersSources(t *testing.T) {
	jan := doc(section("Charges", map[string]float64{"total": 300}, 300))
	jan.GrandTotals.TotalOverdue = 120
	feb := doc(section("Charges", map[string]float64{"total": 80}, 80))
	feb.GrandTotals.TotalOverdue = 30

	view := Merge([]Source{{Name: "jan.xlsx", Doc: jan}, {Name: "feb.xlsx", Doc: feb}})
	assert.InDelta(t, 150.0, view.GrandTotals.TotalOverdue, 1e-9)
}

func TestMergeTotalOverdueFallsBackToNetBalance(t *testing.T) {
	jan := doc(section("Charges", nil, 300))
	feb := doc(section("Charges", nil, -100))

	view := Merge([]Source{{Name: "jan.xlsx", Doc: jan}, {Name: "feb.xlsx", Doc: feb}})
	assert.InDelta(t, 200.0, view.GrandTotals.TotalOverdue, 1e-9)
}

func TestMergeDoesNotMutateSources(t *testing.T) {
	d := doc(section("Charges", map[string]float64{"total": 100}, 100))
	Merge([]Source{{Name: "a.xlsx", Doc: d}, {Name: "b.xlsx", Doc: doc()}})

	assert.Equal(t, "Charges", d.Sections[0].Name)
	assert.Empty(t, d.Sections[0].Records[0].SourceFile)
	assert.Empty(t, d.Metadata.SourceFile)
}

func TestMergeMetadataCarriesSourceName(t *testing.T) {
	d := doc(section("Charges", nil, 10))
	d.Metadata.CustomerName = "ACME"

	view := Merge([]Source{{Name: "jan.xlsx", Doc: d}})
	require.Len(t, view.Metadata, 1)
	assert.Equal(t, "ACME", view.Metadata[0].CustomerName)
	assert.Equal(t, "jan.xlsx", view.Metadata[0].SourceFile)
}
