package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
)

var testCycle = finance.Cycle(2022)

const filingsJSON = `[
	{
		"committee_id": "C00586475",
		"report_type": "Q2",
		"coverage_end_date": "2022-06-30",
		"file_number": 1618492,
		"receipt_date": "2022-07-15T14:02:11Z",
		"total_receipts": 812345.10,
		"total_disbursements": 640211.05,
		"cash_ending": 172134.05,
		"is_amendment": false
	},
	{
		"committee_id": "C00586475",
		"report_type": "Q2",
		"coverage_end_date": "2022-06-30",
		"file_number": 1625401,
		"receipt_date": "2022-08-02T09:30:00Z",
		"total_receipts": 815000.00,
		"total_disbursements": 640211.05,
		"cash_ending": 174788.95,
		"is_amendment": true
	}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "service-key", "")
	require.NoError(t, err)
	return client
}

func TestNewValidation(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		_, err := New("", "key", "")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("missing API key", func(t *testing.T) {
		_, err := New("https://example.supabase.co", "", "")
		assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
	})
}

func TestFilings(t *testing.T) {
	var gotPath string
	var gotQuery, gotHeaders map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"candidate_id": r.URL.Query().Get("candidate_id"),
			"cycle":        r.URL.Query().Get("cycle"),
		}
		gotHeaders = map[string]string{
			"apikey":        r.Header.Get("apikey"),
			"Authorization": r.Header.Get("Authorization"),
		}
		w.Write([]byte(filingsJSON))
	})

	filings, err := client.Filings(context.Background(), "S8AK00090", testCycle)
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/quarterly_financials", gotPath)
	assert.Equal(t, "eq.S8AK00090", gotQuery["candidate_id"])
	assert.Equal(t, "eq.2022", gotQuery["cycle"])
	assert.Equal(t, "service-key", gotHeaders["apikey"])
	assert.Equal(t, "Bearer service-key", gotHeaders["Authorization"])

	require.Len(t, filings, 2)

	first := filings[0]
	assert.Equal(t, "C00586475", first.CommitteeID)
	assert.Equal(t, "Q2", first.ReportType)
	assert.Equal(t, time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC), first.CoverageEndDate)
	assert.Equal(t, int64(1618492), first.FileNumber)
	assert.Equal(t, "812345.1", first.TotalReceipts.String())
	assert.False(t, first.IsAmendment)

	second := filings[1]
	assert.True(t, second.IsAmendment)
	assert.Equal(t, "815000", second.TotalReceipts.String())
	assert.Equal(t, time.Date(2022, 8, 2, 9, 30, 0, 0, time.UTC), second.ReceiptDate)
}

func TestFilingsValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid input")
	})

	_, err := client.Filings(context.Background(), "", testCycle)
	assert.True(t, errors.IsValidationError(err))

	_, err = client.Filings(context.Background(), "S8AK00090", 2021)
	assert.True(t, errors.IsValidationError(err))
}

func TestFilingsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db connection pool exhausted", http.StatusServiceUnavailable)
	})

	_, err := client.Filings(context.Background(), "S8AK00090", testCycle)
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamUnavailable(err))
}

func TestCandidateIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/candidates", r.URL.Path)
		assert.Equal(t, "eq.2022", r.URL.Query().Get("cycle"))
		assert.Equal(t, "candidate_id", r.URL.Query().Get("select"))
		w.Write([]byte(`[
			{"candidate_id": "S8AK00090"},
			{"candidate_id": "S0WY00137"},
			{"candidate_id": "S8AK00090"},
			{"candidate_id": ""}
		]`))
	})

	ids, err := client.CandidateIDs(context.Background(), testCycle)
	require.NoError(t, err)
	assert.Equal(t, []string{"S8AK00090", "S0WY00137"}, ids)
}

func TestCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		assert.Equal(t, "0-0", r.Header.Get("Range"))
		assert.Equal(t, "gt.0", r.URL.Query().Get("total_receipts"))
		w.Header().Set("Content-Range", "0-0/3573")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte(`[{"candidate_id":"S8AK00090"}]`))
	})

	n, err := client.Count(context.Background(), TableQuarterlyFinancials, map[string]string{
		"total_receipts": "gt.0",
	})
	require.NoError(t, err)
	assert.Equal(t, 3573, n)
}

func TestSummaryCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, TableFinancialSummary)
		w.Header().Set("Content-Range", "0-0/212")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte(`[{}]`))
	})

	n, err := client.SummaryCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 212, n)
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		header  string
		want    int
		wantErr bool
	}{
		{"0-0/3573", 3573, false},
		{"*/42", 42, false},
		{"0-24/*", 0, true},
		{"", 0, true},
		{"garbage", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := parseContentRange(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
