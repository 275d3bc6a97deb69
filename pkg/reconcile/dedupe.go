package reconcile

import (
	"sort"

	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
)

// DeduplicateAmendments collapses filings that cover the same reporting
// period for the same committee down to one canonical filing each.
//
// Policy: the latest filed amendment wins, identified by the highest FEC
// file number (a monotonic filing sequence). When file numbers tie or are
// absent, the most recent receipt date wins. Input order never decides,
// because no ordering is guaranteed by the store. A remaining tie between
// filings with differing financial figures has no canonical member and
// returns ErrInconsistentData.
//
// The result is ordered by committee ID, then coverage end date, so the
// operation is deterministic and idempotent.
func DeduplicateAmendments(filings []finance.FilingRecord) ([]finance.FilingRecord, error) {
	canonical := make(map[finance.PeriodKey]finance.FilingRecord, len(filings))

	for _, f := range filings {
		key := f.Period()
		current, ok := canonical[key]
		if !ok {
			canonical[key] = f
			continue
		}

		switch supersedes(f, current) {
		case 1:
			canonical[key] = f
		case -1:
			// current stands
		default:
			if !sameFigures(f, current) {
				return nil, errors.NewInconsistentDataError(key.CommitteeID, key.CoverageEnd,
					"filings tie on file number and receipt date but report different figures")
			}
			// Exact duplicates collapse silently.
		}
	}

	result := make([]finance.FilingRecord, 0, len(canonical))
	for _, f := range canonical {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CommitteeID != result[j].CommitteeID {
			return result[i].CommitteeID < result[j].CommitteeID
		}
		return result[i].CoverageEndDate.Before(result[j].CoverageEndDate)
	})

	return result, nil
}

// supersedes reports whether a replaces b (1), b stands (-1), or the
// tiebreak fields cannot decide (0).
func supersedes(a, b finance.FilingRecord) int {
	if a.FileNumber != b.FileNumber {
		if a.FileNumber > b.FileNumber {
			return 1
		}
		return -1
	}
	if !a.ReceiptDate.Equal(b.ReceiptDate) {
		if a.ReceiptDate.After(b.ReceiptDate) {
			return 1
		}
		return -1
	}
	return 0
}

// sameFigures reports whether two filings carry identical financial figures.
func sameFigures(a, b finance.FilingRecord) bool {
	return a.TotalReceipts.Equal(b.TotalReceipts) &&
		a.TotalDisbursements.Equal(b.TotalDisbursements) &&
		a.CashEnding.Equal(b.CashEnding)
}
