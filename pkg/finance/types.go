// Package finance defines the domain types shared by the FEC client, the
// store client, and the reconciliation engine. All monetary amounts are
// decimals; float arithmetic is never used for money.
package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/electionwatch/fecrecon/pkg/errors"
)

// Cycle is a two-year election period identified by its ending even year.
type Cycle int

// Validate checks that the cycle is a 4-digit even year.
func (c Cycle) Validate() error {
	if c < 1000 || c > 9999 {
		return errors.NewValidationError("cycle", int(c), "must be a 4-digit year")
	}
	if c%2 != 0 {
		return errors.NewValidationError("cycle", int(c), "must be an even year")
	}
	return nil
}

// Int returns the cycle year as an int.
func (c Cycle) Int() int {
	return int(c)
}

// AuthoritativeTotal holds the aggregate financial figures the FEC computes
// and serves for a candidate/cycle. It is treated as ground truth and never
// modified within a reconciliation run.
type AuthoritativeTotal struct {
	CandidateID   string          `json:"candidate_id"`
	Cycle         Cycle           `json:"cycle"`
	Receipts      decimal.Decimal `json:"receipts"`
	Disbursements decimal.Decimal `json:"disbursements"`
	CashOnHand    decimal.Decimal `json:"cash_on_hand"`
}

// FilingRecord is one stored per-filing row from quarterly_financials.
// Multiple filings may cover the same period when amendments supersede
// original filings for a committee and coverage window.
type FilingRecord struct {
	CommitteeID        string          `json:"committee_id"`
	ReportType         string          `json:"report_type"`
	CoverageEndDate    time.Time       `json:"coverage_end_date"`
	FileNumber         int64           `json:"file_number"`
	ReceiptDate        time.Time       `json:"receipt_date"`
	TotalReceipts      decimal.Decimal `json:"total_receipts"`
	TotalDisbursements decimal.Decimal `json:"total_disbursements"`
	CashEnding         decimal.Decimal `json:"cash_ending"`
	IsAmendment        bool            `json:"is_amendment"`
}

// PeriodKey identifies the reporting period a filing covers. At most one
// filing per key may be counted toward a candidate's totals.
type PeriodKey struct {
	CommitteeID string
	CoverageEnd time.Time
}

// Period returns the filing's period key. Coverage dates are normalized to
// UTC midnight so that rows ingested with differing time zones still group.
func (f FilingRecord) Period() PeriodKey {
	d := f.CoverageEndDate.UTC()
	return PeriodKey{
		CommitteeID: f.CommitteeID,
		CoverageEnd: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// ReconciliationResult reports how a candidate's deduplicated stored filings
// compare against the authoritative total for the same cycle.
type ReconciliationResult struct {
	CandidateID           string             `json:"candidate_id"`
	Cycle                 Cycle              `json:"cycle"`
	Expected              AuthoritativeTotal `json:"expected"`
	ComputedReceipts      decimal.Decimal    `json:"computed_receipts"`
	ComputedDisbursements decimal.Decimal    `json:"computed_disbursements"`

	// Difference is expected receipts minus computed receipts.
	Difference decimal.Decimal `json:"difference"`

	// RelativeDifference is |Difference| / expected receipts. Undefined when
	// the expected value is zero; the zero-expected guard sets it to zero
	// and drives WithinTolerance directly.
	RelativeDifference decimal.Decimal `json:"relative_difference"`

	WithinTolerance bool `json:"within_tolerance"`

	FilingsCounted int `json:"filings_counted"`
	FilingsDropped int `json:"filings_dropped"`
}
