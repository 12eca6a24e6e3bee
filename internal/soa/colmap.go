package soa

import (
	"strings"

	"soacli/internal/grid"
)

// field is a canonical semantic column.
type field string

const (
	fieldAmount           field = "amount"
	fieldCurrency         field = "currency"
	fieldDueDate          field = "due_date"
	fieldDocDate          field = "doc_date"
	fieldDocNo            field = "doc_no"
	fieldReference        field = "reference"
	fieldCompany          field = "company"
	fieldAccount          field = "account"
	fieldText             field = "text"
	fieldAssignment       field = "assignment"
	fieldRRComments       field = "rr_comments"
	fieldActionOwner      field = "action_owner"
	fieldDaysLate         field = "days_late"
	fieldCustomerComments field = "customer_comments"
	fieldStatus           field = "status"
	fieldCustomerName     field = "customer_name"
	fieldLPICumulated     field = "lpi_cumulated"
	fieldPOReference      field = "po_reference"
	fieldType             field = "type"
	fieldInterestMethod   field = "interest_method"
)

// colRule matches one normalized header label against a canonical field.
// exact matches whole labels, all requires every substring, any requires at
// least one, none vetoes. The zero slices are simply unused.
type colRule struct {
	field field
	exact []string
	all   []string
	any   []string
	none  []string
}

func (r colRule) matches(label string) bool {
	for _, e := range r.exact {
		if label == e {
			return true
		}
	}
	if len(r.all) > 0 {
		for _, s := range r.all {
			if !strings.Contains(label, s) {
				return false
			}
		}
		return r.allowed(label)
	}
	for _, s := range r.any {
		if strings.Contains(label, s) {
			return r.allowed(label)
		}
	}
	return false
}

func (r colRule) allowed(label string) bool {
	for _, s := range r.none {
		if strings.Contains(label, s) {
			return false
		}
	}
	return true
}

// columnRules is the prioritized mapping table. Order matters: the first
// rule that matches a header cell claims it, so the specific rules sit
// above the generic ones (e.g. "net due date" must map to due_date before
// the bare "date" fallback can see it). New statement formats extend this
// table, not the control flow around it.
var columnRules = []colRule{
	{field: fieldAmount, any: []string{"amount"}},
	{field: fieldCurrency, exact: []string{"curr", "currency"}},
	{field: fieldDueDate, any: []string{"net due", "due date"}},
	{field: fieldDocDate, all: []string{"document", "date"}},
	{field: fieldDocNo, all: []string{"document", "no"}},
	{field: fieldDocDate, any: []string{"invoice date"}},
	{field: fieldReference, any: []string{"reference"}},
	{field: fieldCompany, any: []string{"company"}},
	{field: fieldAccount, any: []string{"account"}},
	{field: fieldText, exact: []string{"text"}},
	{field: fieldAssignment, any: []string{"assignment", "arrangement"}},
	{field: fieldRRComments, any: []string{"r-r comment", "rr comment"}},
	{field: fieldActionOwner, any: []string{"action", "reqd"}},
	{field: fieldDaysLate, all: []string{"days", "late"}},
	{field: fieldCustomerComments, any: []string{"comment"}, none: []string{"r-r", "rr"}},
	{field: fieldStatus, any: []string{"status"}},
	{field: fieldCustomerName, any: []string{"customer"}, none: []string{"comment", "name", "respon"}},
	{field: fieldLPICumulated, any: []string{"lpi"}},
	{field: fieldPOReference, any: []string{"etr", "po", "pr"}},
	{field: fieldType, any: []string{"type"}},
	{field: fieldInterestMethod, any: []string{"interest", "calc"}},
}

// mapColumns maps header labels to canonical fields. Each cell is claimed
// by the first rule that matches it; a later cell matching the same rule
// takes over that field, mirroring how repeated labels behave in the
// source workbooks.
func mapColumns(header []grid.Cell) map[field]int {
	mapping := make(map[field]int)
	labels := make([]string, len(header))
	for i, cell := range header {
		labels[i] = strings.ToLower(cellString(cell))
	}

	for i, label := range labels {
		if label == "" {
			continue
		}
		for _, rule := range columnRules {
			if rule.matches(label) {
				mapping[rule.field] = i
				break
			}
		}
	}

	// Fallbacks for the essentials when no rule claimed them.
	if _, ok := mapping[fieldAmount]; !ok {
		if i, ok := firstLabelContaining(labels, "amount"); ok {
			mapping[fieldAmount] = i
		}
	}
	if _, ok := mapping[fieldDocDate]; !ok {
		if i, ok := firstUnclaimedContaining(labels, "date", mapping); ok {
			mapping[fieldDocDate] = i
		}
	}
	if _, ok := mapping[fieldDueDate]; !ok {
		if i, ok := firstUnclaimedContaining(labels, "due", mapping); ok {
			mapping[fieldDueDate] = i
		}
	}
	return mapping
}

func firstLabelContaining(labels []string, sub string) (int, bool) {
	for i, l := range labels {
		if l != "" && strings.Contains(l, sub) {
			return i, true
		}
	}
	return 0, false
}

func firstUnclaimedContaining(labels []string, sub string, mapping map[field]int) (int, bool) {
	claimed := make(map[int]bool, len(mapping))
	for _, col := range mapping {
		claimed[col] = true
	}
	for i, l := range labels {
		if l != "" && !claimed[i] && strings.Contains(l, sub) {
			return i, true
		}
	}
	return 0, false
}
