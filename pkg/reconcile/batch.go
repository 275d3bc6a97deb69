package reconcile

import (
	"context"
	"encoding/json"

	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
	"github.com/electionwatch/fecrecon/pkg/logging"
)

// BatchResult holds the outcome of reconciling many candidates in one run.
// Failures never abort the batch; they are collected per candidate.
type BatchResult struct {
	Cycle    finance.Cycle                   `json:"cycle"`
	Results  []*finance.ReconciliationResult `json:"results"`
	Failures map[string]error                `json:"-"`
}

// MarshalJSON renders Failures as error strings so JSON reports carry the
// same per-candidate detail as the text output.
func (b *BatchResult) MarshalJSON() ([]byte, error) {
	failures := make(map[string]string, len(b.Failures))
	for id, err := range b.Failures {
		failures[id] = err.Error()
	}

	return json.Marshal(struct {
		Cycle    finance.Cycle                   `json:"cycle"`
		Results  []*finance.ReconciliationResult `json:"results"`
		Failures map[string]string               `json:"failures,omitempty"`
	}{
		Cycle:    b.Cycle,
		Results:  b.Results,
		Failures: failures,
	})
}

// Passed returns how many candidates reconciled within tolerance.
func (b *BatchResult) Passed() int {
	n := 0
	for _, r := range b.Results {
		if r.WithinTolerance {
			n++
		}
	}
	return n
}

// Failed returns how many candidates reconciled out of tolerance.
func (b *BatchResult) Failed() int {
	return len(b.Results) - b.Passed()
}

// Err returns a BatchError when any candidate failed to reconcile at all,
// nil otherwise.
func (b *BatchResult) Err() error {
	if len(b.Failures) == 0 {
		return nil
	}
	return errors.NewBatchError(b.Failures)
}

// ReconcileAll reconciles every candidate in the list against the given
// cycle. A candidate whose run errors is recorded in Failures and the batch
// moves on; only context cancellation stops the loop early.
func (r *Reconciler) ReconcileAll(ctx context.Context, candidateIDs []string, cycle finance.Cycle) (*BatchResult, error) {
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	batch := &BatchResult{
		Cycle:    cycle,
		Results:  make([]*finance.ReconciliationResult, 0, len(candidateIDs)),
		Failures: make(map[string]error),
	}

	for _, id := range candidateIDs {
		if err := ctx.Err(); err != nil {
			return batch, errors.WrapAPI("batch", 0, err)
		}

		result, err := r.Reconcile(ctx, id, cycle)
		if err != nil {
			logging.Ctx(ctx).Error().
				Err(err).
				Str("candidate_id", id).
				Msg("Candidate reconciliation failed, continuing batch")
			batch.Failures[id] = err
			continue
		}
		batch.Results = append(batch.Results, result)
	}

	return batch, nil
}
