// Package fec implements the client for the FEC API, the authoritative
// source for candidate aggregate totals. Reconciliation treats everything
// returned here as ground truth.
package fec

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/electionwatch/fecrecon/internal/transport"
	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
	"github.com/electionwatch/fecrecon/pkg/logging"
)

// DefaultBaseURL is the production FEC API endpoint.
const DefaultBaseURL = "https://api.open.fec.gov"

// Pagination is the envelope the FEC API wraps every result list in.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Count   int `json:"count"`
}

// totalsResponse is the wire shape of /v1/candidate/{id}/totals/.
type totalsResponse struct {
	Pagination Pagination  `json:"pagination"`
	Results    []totalsRow `json:"results"`
}

type totalsRow struct {
	CandidateID             string          `json:"candidate_id"`
	Cycle                   int             `json:"cycle"`
	Receipts                decimal.Decimal `json:"receipts"`
	Disbursements           decimal.Decimal `json:"disbursements"`
	LastCashOnHandEndPeriod decimal.Decimal `json:"last_cash_on_hand_end_period"`
}

// candidateResponse is the wire shape of /v1/candidate/{id}/.
type candidateResponse struct {
	Pagination Pagination     `json:"pagination"`
	Results    []CandidateRow `json:"results"`
}

// CandidateRow is the subset of FEC candidate metadata the CLI displays.
type CandidateRow struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party_full"`
	State       string `json:"state"`
	Office      string `json:"office_full"`
}

// Client fetches authoritative data from the FEC API.
type Client struct {
	baseURL   string
	transport *transport.Client
}

type options struct {
	baseURL  string
	httpOpts []transport.Option
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL overrides the FEC API base URL (used in tests).
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPOptions forwards options (timeout, retries) to the underlying
// transport client.
func WithHTTPOptions(opts ...transport.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// New creates a new FEC client. The API key is required; it rides along as
// the api_key query parameter on every request.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}

	o := options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL:   o.baseURL,
		transport: transport.New(&transport.QueryAuth{Param: "api_key", Key: apiKey}, o.httpOpts...),
	}, nil
}

// CandidateTotals fetches the authoritative total for a candidate/cycle.
// Returns ErrNotFound when the FEC has no record for the pair and
// ErrUpstreamUnavailable on network, timeout, or 5xx failures.
func (c *Client) CandidateTotals(ctx context.Context, candidateID string, cycle finance.Cycle) (finance.AuthoritativeTotal, error) {
	var total finance.AuthoritativeTotal

	if candidateID == "" {
		return total, errors.NewValidationError("candidate_id", candidateID, "must not be empty")
	}
	if err := cycle.Validate(); err != nil {
		return total, err
	}

	endpoint := fmt.Sprintf("%s/v1/candidate/%s/totals/?cycle=%d&per_page=%d",
		c.baseURL, url.PathEscape(candidateID), cycle.Int(), constants.DefaultPageSize)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return total, err
	}

	var parsed totalsResponse
	if err := transport.DecodeJSON(resp, "fec", &parsed); err != nil {
		return total, err
	}

	if parsed.Pagination.Count == 0 || len(parsed.Results) == 0 {
		return total, errors.NewNotFoundError("candidate totals", fmt.Sprintf("%s/%d", candidateID, cycle.Int()))
	}

	row := parsed.Results[0]
	if len(parsed.Results) > 1 {
		logging.Ctx(ctx).Warn().
			Str("candidate_id", candidateID).
			Int("count", parsed.Pagination.Count).
			Msg("FEC returned multiple totals rows for one cycle, using the first")
	}

	return finance.AuthoritativeTotal{
		CandidateID:   row.CandidateID,
		Cycle:         finance.Cycle(row.Cycle),
		Receipts:      row.Receipts,
		Disbursements: row.Disbursements,
		CashOnHand:    row.LastCashOnHandEndPeriod,
	}, nil
}

// Candidate fetches FEC metadata for a candidate, used by batch output to
// attach display names to IDs.
func (c *Client) Candidate(ctx context.Context, candidateID string) (CandidateRow, error) {
	var row CandidateRow

	if candidateID == "" {
		return row, errors.NewValidationError("candidate_id", candidateID, "must not be empty")
	}

	endpoint := fmt.Sprintf("%s/v1/candidate/%s/", c.baseURL, url.PathEscape(candidateID))

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return row, err
	}

	var parsed candidateResponse
	if err := transport.DecodeJSON(resp, "fec", &parsed); err != nil {
		return row, err
	}

	if len(parsed.Results) == 0 {
		return row, errors.NewNotFoundError("candidate", candidateID)
	}
	return parsed.Results[0], nil
}
