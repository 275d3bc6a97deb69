// Package store implements the client for the hosted relational store,
// reached over its REST interface (PostgREST conventions: eq./gt. query
// filters, apikey plus bearer headers, exact counts via Content-Range).
// The reconciliation logic only ever reads from it.
package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/electionwatch/fecrecon/internal/transport"
	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
)

// Table names in the hosted store.
const (
	TableQuarterlyFinancials = "quarterly_financials"
	TableFinancialSummary    = "financial_summary"
	TableCandidates          = "candidates"
)

// Client reads candidate and filing rows from the hosted store.
type Client struct {
	baseURL   string
	transport *transport.Client
}

type options struct {
	httpOpts []transport.Option
}

// Option configures a Client.
type Option func(*options)

// WithHTTPOptions forwards options (timeout, retries) to the underlying
// transport client.
func WithHTTPOptions(opts ...transport.Option) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, opts...)
	}
}

// New creates a new store client. The base URL and API key are required;
// token may be empty, in which case the API key doubles as the bearer token.
func New(baseURL, apiKey, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.NewConfigError("store", "base URL is required", nil)
	}
	if apiKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport.New(&transport.SupabaseAuth{APIKey: apiKey, Token: token}, o.httpOpts...),
	}, nil
}

// restDate accepts the two timestamp shapes the store emits: bare dates
// for date columns and RFC 3339 for timestamptz columns.
type restDate struct {
	time.Time
}

func (d *restDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return errors.WrapParse("json", "date "+s, errors.New("unrecognized date format"))
}

// filingRow is the wire shape of a quarterly_financials row.
type filingRow struct {
	CommitteeID        string          `json:"committee_id"`
	ReportType         string          `json:"report_type"`
	CoverageEndDate    restDate        `json:"coverage_end_date"`
	FileNumber         int64           `json:"file_number"`
	ReceiptDate        restDate        `json:"receipt_date"`
	TotalReceipts      decimal.Decimal `json:"total_receipts"`
	TotalDisbursements decimal.Decimal `json:"total_disbursements"`
	CashEnding         decimal.Decimal `json:"cash_ending"`
	IsAmendment        bool            `json:"is_amendment"`
}

// Filings returns all stored filings for a candidate/cycle, unfiltered and
// in no guaranteed order. Callers that need latest-filing semantics must
// order by coverage end date themselves.
func (c *Client) Filings(ctx context.Context, candidateID string, cycle finance.Cycle) ([]finance.FilingRecord, error) {
	if candidateID == "" {
		return nil, errors.NewValidationError("candidate_id", candidateID, "must not be empty")
	}
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("candidate_id", "eq."+candidateID)
	query.Set("cycle", fmt.Sprintf("eq.%d", cycle.Int()))
	query.Set("select", "*")

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, TableQuarterlyFinancials, query.Encode())

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var rows []filingRow
	if err := transport.DecodeJSON(resp, "store", &rows); err != nil {
		return nil, err
	}

	filings := make([]finance.FilingRecord, 0, len(rows))
	for _, r := range rows {
		filings = append(filings, finance.FilingRecord{
			CommitteeID:        r.CommitteeID,
			ReportType:         r.ReportType,
			CoverageEndDate:    r.CoverageEndDate.Time,
			FileNumber:         r.FileNumber,
			ReceiptDate:        r.ReceiptDate.Time,
			TotalReceipts:      r.TotalReceipts,
			TotalDisbursements: r.TotalDisbursements,
			CashEnding:         r.CashEnding,
			IsAmendment:        r.IsAmendment,
		})
	}
	return filings, nil
}

// CandidateIDs returns the distinct candidate IDs stored for a cycle,
// feeding batch verification when no explicit list is given.
func (c *Client) CandidateIDs(ctx context.Context, cycle finance.Cycle) ([]string, error) {
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("cycle", fmt.Sprintf("eq.%d", cycle.Int()))
	query.Set("select", "candidate_id")

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, TableCandidates, query.Encode())

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		CandidateID string `json:"candidate_id"`
	}
	if err := transport.DecodeJSON(resp, "store", &rows); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.CandidateID == "" || seen[r.CandidateID] {
			continue
		}
		seen[r.CandidateID] = true
		ids = append(ids, r.CandidateID)
	}
	return ids, nil
}

// Count returns the exact row count for a table, optionally narrowed by
// PostgREST filters such as {"total_receipts": "gt.0"}. The count comes
// from the Content-Range response header, so no rows are transferred.
func (c *Client) Count(ctx context.Context, table string, filters map[string]string) (int, error) {
	if table == "" {
		return 0, errors.NewValidationError("table", table, "must not be empty")
	}

	query := url.Values{}
	query.Set("select", "*")
	for col, filter := range filters {
		query.Set(col, filter)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, errors.NewValidationError("url", endpoint, err.Error())
	}
	req.Header.Set("Prefer", "count=exact")
	req.Header.Set("Range", "0-0")

	resp, err := c.transport.Do(req)
	if err != nil {
		return 0, err
	}

	contentRange := resp.Header.Get("Content-Range")

	// Body content is irrelevant here, but decoding enforces status checks
	// and closes the body.
	var discard []map[string]any
	if err := transport.DecodeJSON(resp, "store", &discard); err != nil {
		return 0, err
	}

	return parseContentRange(contentRange)
}

// SummaryCount returns the row count of the financial_summary table, the
// cheapest end-to-end connectivity probe against the store.
func (c *Client) SummaryCount(ctx context.Context) (int, error) {
	return c.Count(ctx, TableFinancialSummary, nil)
}

// parseContentRange extracts the total from a Content-Range header in the
// form "0-0/3573" or "*/3573".
func parseContentRange(header string) (int, error) {
	_, total, ok := strings.Cut(header, "/")
	if !ok || total == "" || total == "*" {
		return 0, errors.WrapParse("header", "Content-Range "+strconv.Quote(header),
			errors.New("missing exact count"))
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, errors.WrapParse("header", "Content-Range "+strconv.Quote(header), err)
	}
	return n, nil
}
