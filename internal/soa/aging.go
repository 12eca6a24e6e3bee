package soa

import "soacli/pkg/contracts/domain"

// computeAging buckets outstanding charges by how many days they are late.
// Credits do not age, and records without a derivable days-late figure go
// into the Unknown bucket.
func computeAging(records []domain.Record) domain.AgingBuckets {
	var b domain.AgingBuckets
	for _, rec := range records {
		if rec.Amount <= 0 {
			continue
		}
		if rec.DaysLate == nil {
			b.Unknown += rec.Amount
			continue
		}
		switch d := *rec.DaysLate; {
		case d <= 0:
			b.Current += rec.Amount
		case d <= 30:
			b.Days1To30 += rec.Amount
		case d <= 60:
			b.Days31To60 += rec.Amount
		case d <= 90:
			b.Days61To90 += rec.Amount
		case d <= 180:
			b.Days91To180 += rec.Amount
		default:
			b.Over180 += rec.Amount
		}
	}
	return b
}
