// Package reconcile implements the verification core: it compares locally
// stored per-filing figures against authoritative FEC aggregate totals,
// deduplicating amendments before summation so that superseded filings are
// never double-counted.
package reconcile

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
	"github.com/electionwatch/fecrecon/pkg/logging"
)

// TotalsSource fetches authoritative aggregate totals for a candidate/cycle.
type TotalsSource interface {
	CandidateTotals(ctx context.Context, candidateID string, cycle finance.Cycle) (finance.AuthoritativeTotal, error)
}

// FilingStore fetches locally stored per-filing records for a candidate/cycle.
// No ordering guarantee is imposed on the returned slice.
type FilingStore interface {
	Filings(ctx context.Context, candidateID string, cycle finance.Cycle) ([]finance.FilingRecord, error)
}

// Reconciler verifies stored filings against authoritative totals.
type Reconciler struct {
	totals    TotalsSource
	store     FilingStore
	tolerance decimal.Decimal
}

// Option configures a Reconciler.
type Option func(*Reconciler) error

// WithTolerance sets the relative tolerance fraction. A run passes when
// |expected - computed| / expected <= tolerance. Must be in [0, 1).
func WithTolerance(tolerance float64) Option {
	return func(r *Reconciler) error {
		if tolerance < 0 || tolerance >= 1 {
			return errors.NewConfigError("tolerance", "must be in [0, 1)", nil)
		}
		r.tolerance = decimal.NewFromFloat(tolerance)
		return nil
	}
}

// New creates a Reconciler over the given sources. The default tolerance is
// constants.DefaultTolerance (10%).
func New(totals TotalsSource, store FilingStore, opts ...Option) (*Reconciler, error) {
	if totals == nil {
		return nil, errors.NewConfigError("reconciler", "totals source is required", nil)
	}
	if store == nil {
		return nil, errors.NewConfigError("reconciler", "filing store is required", nil)
	}

	r := &Reconciler{
		totals:    totals,
		store:     store,
		tolerance: decimal.NewFromFloat(constants.DefaultTolerance),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Tolerance returns the configured tolerance fraction.
func (r *Reconciler) Tolerance() decimal.Decimal {
	return r.tolerance
}

// Reconcile fetches the authoritative total and the stored filings for one
// candidate/cycle, deduplicates amendments, and reports whether the summed
// filings match the authoritative figures within the configured tolerance.
// The run is read-only and idempotent.
func (r *Reconciler) Reconcile(ctx context.Context, candidateID string, cycle finance.Cycle) (*finance.ReconciliationResult, error) {
	if candidateID == "" {
		return nil, errors.NewValidationError("candidate_id", candidateID, "must not be empty")
	}
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	ctx = logging.WithCandidate(ctx, candidateID)
	log := logging.Ctx(ctx)

	expected, err := r.totals.CandidateTotals(ctx, candidateID, cycle)
	if err != nil {
		return nil, err
	}

	filings, err := r.store.Filings(ctx, candidateID, cycle)
	if err != nil {
		return nil, err
	}

	deduped, err := DeduplicateAmendments(filings)
	if err != nil {
		return nil, err
	}

	var receipts, disbursements decimal.Decimal
	for _, f := range deduped {
		receipts = receipts.Add(f.TotalReceipts)
		disbursements = disbursements.Add(f.TotalDisbursements)
	}

	result := &finance.ReconciliationResult{
		CandidateID:           candidateID,
		Cycle:                 cycle,
		Expected:              expected,
		ComputedReceipts:      receipts,
		ComputedDisbursements: disbursements,
		Difference:            expected.Receipts.Sub(receipts),
		FilingsCounted:        len(deduped),
		FilingsDropped:        len(filings) - len(deduped),
	}

	if expected.Receipts.IsZero() {
		// No division when the expected value is zero: any nonzero computed
		// sum is out of tolerance.
		result.WithinTolerance = receipts.IsZero()
	} else {
		result.RelativeDifference = result.Difference.Abs().Div(expected.Receipts.Abs())
		result.WithinTolerance = result.RelativeDifference.LessThanOrEqual(r.tolerance)
	}

	log.Debug().
		Int("cycle", cycle.Int()).
		Str("expected_receipts", expected.Receipts.String()).
		Str("computed_receipts", receipts.String()).
		Int("filings_counted", result.FilingsCounted).
		Int("filings_dropped", result.FilingsDropped).
		Bool("within_tolerance", result.WithinTolerance).
		Msg("Reconciliation complete")

	return result, nil
}
