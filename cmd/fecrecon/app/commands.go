package app

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/electionwatch/fecrecon/internal/sources/store"
	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/finance"
	"github.com/electionwatch/fecrecon/pkg/senate"
)

var hundred = decimal.NewFromInt(100)

// NewReconcileCommand creates the reconcile command for a single candidate.
func (a *App) NewReconcileCommand() *cobra.Command {
	var (
		cycle     int
		tolerance float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile <candidate-id>",
		Short: "Reconcile one candidate against FEC totals",
		Args:  cobra.ExactArgs(1),
		Long: `Reconcile fetches the authoritative FEC aggregate totals for a candidate
and compares them against the sum of locally stored filings for the same
cycle, after collapsing amended filings down to their latest version.

The comparison passes when the relative difference stays within the
configured tolerance (default 10%).`,
		Example: `  fecrecon reconcile S2AK00159 --cycle 2022
  fecrecon reconcile S2AK00159 --cycle 2022 --tolerance 0.01
  fecrecon reconcile S2AK00159 --cycle 2022 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tolerance") {
				a.config.Tolerance = tolerance
			}

			reconciler, err := a.Reconciler()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.ReconcileTimeout)
			defer cancel()

			result, err := reconciler.Reconcile(ctx, args[0], finance.Cycle(cycle))
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, result)
			}

			// Display name is cosmetic; a failed lookup never fails the run.
			fecClient, err := a.FEC()
			if err == nil {
				if row, lookupErr := fecClient.Candidate(ctx, result.CandidateID); lookupErr == nil {
					cmd.Printf("name:             %s (%s, %s)\n", row.Name, row.Party, row.State)
				}
			}
			printResult(cmd, result)
			if !result.WithinTolerance {
				return fmt.Errorf("candidate %s is out of tolerance for cycle %d", result.CandidateID, result.Cycle)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cycle, "cycle", 0, "election cycle, e.g. 2022 (required)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "relative tolerance, e.g. 0.10 for 10%")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	_ = cmd.MarkFlagRequired("cycle")

	return cmd
}

// NewVerifyCommand creates the verify command, the batch counterpart of
// reconcile: every candidate with stored filings in the cycle is checked.
func (a *App) NewVerifyCommand() *cobra.Command {
	var (
		cycle     int
		tolerance float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "verify [candidate-id...]",
		Short: "Reconcile every stored candidate for a cycle",
		Long: `Verify runs the reconciliation for a list of candidates, or for every
candidate that has filings stored for the given cycle when no candidates
are named. Candidates whose check errors (missing FEC data, network
failures) are reported and skipped; the batch keeps going.

The command exits non-zero when any candidate is out of tolerance or
failed to reconcile.`,
		Example: `  fecrecon verify --cycle 2022
  fecrecon verify S2AK00159 S2GA00001 --cycle 2022
  fecrecon verify --cycle 2022 --tolerance 0.05 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tolerance") {
				a.config.Tolerance = tolerance
			}

			reconciler, err := a.Reconciler()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.BatchTimeout)
			defer cancel()

			candidateIDs := args
			if len(candidateIDs) == 0 {
				storeClient, err := a.Store()
				if err != nil {
					return err
				}
				candidateIDs, err = storeClient.CandidateIDs(ctx, finance.Cycle(cycle))
				if err != nil {
					return err
				}
			}

			batch, err := reconciler.ReconcileAll(ctx, candidateIDs, finance.Cycle(cycle))
			if err != nil {
				return err
			}

			if asJSON {
				if err := printJSON(cmd, batch); err != nil {
					return err
				}
			} else {
				for _, result := range batch.Results {
					printResultLine(cmd, result)
				}
				for _, id := range sortedKeys(batch.Failures) {
					cmd.Printf("ERROR  %-12s %v\n", id, batch.Failures[id])
				}
				cmd.Printf("\n%d candidates: %d passed, %d out of tolerance, %d errored\n",
					len(candidateIDs), batch.Passed(), batch.Failed(), len(batch.Failures))
			}

			if err := batch.Err(); err != nil {
				return err
			}
			if batch.Failed() > 0 {
				return fmt.Errorf("%d candidates out of tolerance for cycle %d", batch.Failed(), cycle)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cycle, "cycle", 0, "election cycle, e.g. 2022 (required)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "relative tolerance, e.g. 0.10 for 10%")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the batch result as JSON")
	_ = cmd.MarkFlagRequired("cycle")

	return cmd
}

// NewClassifyCommand creates the classify command.
func (a *App) NewClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <name> <state>",
		Short: "Check whether a candidate is a sitting senator",
		Args:  cobra.ExactArgs(2),
		Long: `Classify matches a candidate name and two-letter state code against the
sitting-senator roster. Matching is case-insensitive on the surname and
exact on the state. A match reports the senator's class, which determines
the next re-election cycle.`,
		Example: `  fecrecon classify "SULLIVAN, DAN" AK
  fecrecon classify "Ossoff, Jon" GA`,
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := a.Classifier()
			if err != nil {
				return err
			}

			sitting, class := classifier.Classify(args[0], args[1])
			if !sitting {
				cmd.Printf("%s (%s) is not a sitting senator\n", args[0], args[1])
				return nil
			}
			cmd.Printf("%s (%s) is a sitting senator, class %s\n", args[0], args[1], class)
			return nil
		},
	}

	return cmd
}

// NewSenatorsCommand creates the senators command listing the roster.
func (a *App) NewSenatorsCommand() *cobra.Command {
	var (
		classFlag string
		stateFlag string
	)

	cmd := &cobra.Command{
		Use:   "senators",
		Short: "List the sitting-senator roster",
		Example: `  fecrecon senators
  fecrecon senators --class II
  fecrecon senators --state AK`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			classifier, err := a.Classifier()
			if err != nil {
				return err
			}

			classes := []senate.Class{senate.ClassI, senate.ClassII, senate.ClassIII}
			if classFlag != "" {
				class := senate.Class(classFlag)
				if class != senate.ClassI && class != senate.ClassII && class != senate.ClassIII {
					return fmt.Errorf("unknown Senate class %q, want I, II, or III", classFlag)
				}
				classes = []senate.Class{class}
			}

			cmd.Printf("roster %s\n", classifier.Version())
			for _, class := range classes {
				senators := classifier.Senators(class)
				if stateFlag != "" {
					filtered := senators[:0:0]
					for _, s := range senators {
						if strings.EqualFold(s.State, stateFlag) {
							filtered = append(filtered, s)
						}
					}
					senators = filtered
				}
				cmd.Printf("\nClass %s (%d):\n", class, len(senators))
				for _, s := range senators {
					cmd.Printf("  %-20s %s\n", s.Surname, s.State)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&classFlag, "class", "", "limit to one Senate class: I, II, or III")
	cmd.Flags().StringVar(&stateFlag, "state", "", "limit to one two-letter state code")

	return cmd
}

// NewStatusCommand creates the status command reporting stored row counts.
func (a *App) NewStatusCommand() *cobra.Command {
	var cycle int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show row counts in the hosted store",
		Long: `Status reports how many rows each store table holds, optionally limited
to one cycle. Useful as a quick connectivity and data-freshness check
before running a batch verify.`,
		Example: `  fecrecon status
  fecrecon status --cycle 2022`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			storeClient, err := a.Store()
			if err != nil {
				return err
			}

			var filters map[string]string
			if cycle != 0 {
				if err := finance.Cycle(cycle).Validate(); err != nil {
					return err
				}
				filters = map[string]string{"cycle": fmt.Sprintf("eq.%d", cycle)}
			}

			ctx := cmd.Context()
			for _, table := range []string{
				store.TableQuarterlyFinancials,
				store.TableFinancialSummary,
				store.TableCandidates,
			} {
				count, err := storeClient.Count(ctx, table, filters)
				if err != nil {
					return err
				}
				cmd.Printf("%-22s %d rows\n", table, count)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cycle, "cycle", 0, "limit counts to one election cycle")

	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("fecrecon version %s\n", a.version)
			cmd.Printf("commit: %s\n", a.commit)
			cmd.Printf("built: %s\n", a.date)
			cmd.Printf("go version: %s\n", runtime.Version())
			cmd.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func printResult(cmd *cobra.Command, r *finance.ReconciliationResult) {
	cmd.Printf("candidate:        %s (cycle %d)\n", r.CandidateID, r.Cycle)
	cmd.Printf("expected:         %s receipts, %s disbursements\n",
		r.Expected.Receipts.StringFixed(2), r.Expected.Disbursements.StringFixed(2))
	cmd.Printf("computed:         %s receipts, %s disbursements\n",
		r.ComputedReceipts.StringFixed(2), r.ComputedDisbursements.StringFixed(2))
	cmd.Printf("difference:       %s (%s%%)\n",
		r.Difference.StringFixed(2), r.RelativeDifference.Mul(hundred).StringFixed(2))
	cmd.Printf("filings:          %d counted, %d dropped as superseded\n",
		r.FilingsCounted, r.FilingsDropped)
	if r.WithinTolerance {
		cmd.Printf("status:           PASS\n")
	} else {
		cmd.Printf("status:           FAIL\n")
	}
}

func printResultLine(cmd *cobra.Command, r *finance.ReconciliationResult) {
	status := "PASS"
	if !r.WithinTolerance {
		status = "FAIL"
	}
	cmd.Printf("%-5s  %-12s expected %14s computed %14s diff %s%%\n",
		status, r.CandidateID,
		r.Expected.Receipts.StringFixed(2), r.ComputedReceipts.StringFixed(2),
		r.RelativeDifference.Mul(hundred).StringFixed(2))
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
