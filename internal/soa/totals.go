package soa

import (
	"strings"

	"soacli/pkg/contracts/domain"
)

// computeGrandTotals aggregates amounts across every section.
//
// Total overdue preference order: an explicit "total overdue" summary label
// found anywhere, else the sum of per-section "overdue" labels, else the
// net balance.
func computeGrandTotals(sections []domain.Section, records []domain.Record) domain.GrandTotals {
	gt := domain.GrandTotals{
		SectionTotals:    make(map[string]float64),
		SectionOverdue:   make(map[string]float64),
		AvailableCredits: make(map[string]float64),
	}

	explicitOverdue := 0.0
	haveExplicit := false

	for _, sec := range sections {
		for label, v := range sec.Totals {
			switch {
			case strings.Contains(label, "total overdue"):
				explicitOverdue = v
				haveExplicit = true
			case strings.Contains(label, "overdue"):
				gt.SectionOverdue[sec.Name] = v
			case strings.Contains(label, "available credit"):
				gt.AvailableCredits[sec.Name] = v
			case strings.Contains(label, "total"):
				gt.SectionTotals[sec.Name] = v
			}
		}
	}

	for _, rec := range records {
		if rec.Amount > 0 {
			gt.TotalCharges += rec.Amount
		} else {
			gt.TotalCredits += rec.Amount
		}
		gt.NetBalance += rec.Amount
	}
	gt.ItemCount = len(records)

	switch {
	case haveExplicit:
		gt.TotalOverdue = explicitOverdue
	default:
		sum := 0.0
		for _, v := range gt.SectionOverdue {
			sum += v
		}
		if sum != 0 {
			gt.TotalOverdue = sum
		} else {
			gt.TotalOverdue = gt.NetBalance
		}
	}
	return gt
}
