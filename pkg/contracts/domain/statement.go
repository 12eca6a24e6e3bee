// Package domain contains the shared contract types for parsed statements
// of account. These types cross the boundary between the parsing core, the
// HTTP transport, and the exporters, so every field that can legitimately be
// absent is a pointer and serializes as an explicit JSON null rather than a
// NaN or a silently omitted key.
package domain

import (
	"encoding/json"
	"time"
)

// EntryType is the charge/credit polarity derived from an amount's sign.
type EntryType string

const (
	EntryCharge EntryType = "Charge"
	EntryCredit EntryType = "Credit"
)

// Date is a calendar date that marshals as an unambiguous "YYYY-MM-DD"
// string. Time-of-day is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate truncates t to a calendar date.
func NewDate(t time.Time) *Date {
	d := Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
	return &d
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Metadata holds document-level fields scanned from the lead rows of a
// statement. All fields are optional; absent values stay zero / nil.
type Metadata struct {
	Title        string   `json:"title,omitempty"`
	CustomerName string   `json:"customer_name,omitempty"`
	CustomerID   string   `json:"customer_id,omitempty"`
	Contact      string   `json:"contact,omitempty"`
	LPIRate      *float64 `json:"lpi_rate"`
	AvgDaysLate  *int     `json:"avg_days_late"`
	ReportDate   *Date    `json:"report_date"`
	SourceFile   string   `json:"source_file,omitempty"`
	SourceSheet  string   `json:"source_sheet,omitempty"`
}

// Record is one line item extracted from a statement section.
type Record struct {
	Section   string    `json:"section"`
	Amount    float64   `json:"amount"`
	EntryType EntryType `json:"entry_type"`

	Company          string   `json:"company,omitempty"`
	Account          string   `json:"account,omitempty"`
	Reference        string   `json:"reference,omitempty"`
	DocumentDate     *Date    `json:"document_date"`
	DueDate          *Date    `json:"due_date"`
	Currency         string   `json:"currency,omitempty"`
	Text             string   `json:"text,omitempty"`
	Assignment       string   `json:"assignment,omitempty"`
	RRComments       string   `json:"rr_comments,omitempty"`
	ActionOwner      string   `json:"action_owner,omitempty"`
	DaysLate         *int     `json:"days_late"`
	CustomerComments string   `json:"customer_comments,omitempty"`
	Status           string   `json:"status,omitempty"`
	POReference      string   `json:"po_reference,omitempty"`
	LPICumulated     *float64 `json:"lpi_cumulated"`
	Type             string   `json:"type,omitempty"`
	DocumentNo       string   `json:"document_no,omitempty"`
	InterestMethod   string   `json:"interest_method,omitempty"`
	CustomerName     string   `json:"customer_name,omitempty"`

	// SourceFile is set only after a multi-document merge.
	SourceFile string `json:"source_file,omitempty"`
}

// Section is a labeled contiguous block of line items with its summary
// totals keyed by summary label ("total", "overdue", "available credit").
type Section struct {
	Name    string             `json:"name"`
	Records []Record           `json:"records"`
	Totals  map[string]float64 `json:"totals"`
}

// GrandTotals aggregates amounts across every section of a document.
// NetBalance always equals TotalCharges + TotalCredits.
type GrandTotals struct {
	TotalCharges     float64            `json:"total_charges"`
	TotalCredits     float64            `json:"total_credits"`
	NetBalance       float64            `json:"net_balance"`
	ItemCount        int                `json:"item_count"`
	TotalOverdue     float64            `json:"total_overdue"`
	SectionTotals    map[string]float64 `json:"section_totals"`
	SectionOverdue   map[string]float64 `json:"section_overdue"`
	AvailableCredits map[string]float64 `json:"available_credits"`
}

// AgingBuckets sums positive amounts by how far past due they are.
// Records without a known days-late value land in Unknown.
type AgingBuckets struct {
	Current     float64 `json:"current"`
	Days1To30   float64 `json:"days_1_30"`
	Days31To60  float64 `json:"days_31_60"`
	Days61To90  float64 `json:"days_61_90"`
	Days91To180 float64 `json:"days_91_180"`
	Over180     float64 `json:"over_180"`
	Unknown     float64 `json:"unknown"`
}

// Document is one fully parsed statement of account. It is built once per
// parse call and never mutated afterwards.
type Document struct {
	Metadata    Metadata     `json:"metadata"`
	Sections    []Section    `json:"sections"`
	Records     []Record     `json:"records"`
	GrandTotals GrandTotals  `json:"grand_totals"`
	Aging       AgingBuckets `json:"aging_buckets"`
}

// MergedView is an ephemeral aggregate over several parsed Documents. It is
// recomputed in full whenever the source selection changes.
type MergedView struct {
	Sources     []string    `json:"sources"`
	Records     []Record    `json:"records"`
	Sections    []Section   `json:"sections"`
	GrandTotals GrandTotals `json:"grand_totals"`
	Metadata    []Metadata  `json:"metadata"`
}
