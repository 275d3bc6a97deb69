package fec

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electionwatch/fecrecon/pkg/errors"
	"github.com/electionwatch/fecrecon/pkg/finance"
)

const totalsJSON = `{
	"api_version": "1.0",
	"pagination": {"page": 1, "pages": 1, "per_page": 100, "count": 1},
	"results": [{
		"candidate_id": "S8AK00090",
		"cycle": 2022,
		"receipts": 3949504.79,
		"disbursements": 3626170.55,
		"last_cash_on_hand_end_period": 723334.24
	}]
}`

const emptyJSON = `{
	"api_version": "1.0",
	"pagination": {"page": 1, "pages": 0, "per_page": 100, "count": 0},
	"results": []
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New("DEMO_KEY", WithBaseURL(srv.URL))
	require.NoError(t, err)
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestCandidateTotals(t *testing.T) {
	var gotPath, gotKey, gotCycle string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotCycle = r.URL.Query().Get("cycle")
		w.Write([]byte(totalsJSON))
	})

	total, err := client.CandidateTotals(context.Background(), "S8AK00090", 2022)
	require.NoError(t, err)

	assert.Equal(t, "/v1/candidate/S8AK00090/totals/", gotPath)
	assert.Equal(t, "DEMO_KEY", gotKey)
	assert.Equal(t, "2022", gotCycle)

	assert.Equal(t, "S8AK00090", total.CandidateID)
	assert.Equal(t, finance.Cycle(2022), total.Cycle)
	assert.Equal(t, "3949504.79", total.Receipts.String())
	assert.Equal(t, "3626170.55", total.Disbursements.String())
	assert.Equal(t, "723334.24", total.CashOnHand.String())
}

func TestCandidateTotalsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyJSON))
	})

	_, err := client.CandidateTotals(context.Background(), "S9XX99999", 2022)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCandidateTotalsUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.CandidateTotals(context.Background(), "S8AK00090", 2022)
	require.Error(t, err)
	assert.True(t, errors.IsUpstreamUnavailable(err))
}

func TestCandidateTotalsValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid input")
	})

	t.Run("empty candidate", func(t *testing.T) {
		_, err := client.CandidateTotals(context.Background(), "", 2022)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("odd cycle", func(t *testing.T) {
		_, err := client.CandidateTotals(context.Background(), "S8AK00090", 2021)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestCandidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/candidate/S8AK00090/", r.URL.Path)
		w.Write([]byte(`{
			"pagination": {"page": 1, "pages": 1, "per_page": 20, "count": 1},
			"results": [{
				"candidate_id": "S8AK00090",
				"name": "SULLIVAN, DAN",
				"party_full": "REPUBLICAN PARTY",
				"state": "AK",
				"office_full": "Senate"
			}]
		}`))
	})

	row, err := client.Candidate(context.Background(), "S8AK00090")
	require.NoError(t, err)
	assert.Equal(t, "SULLIVAN, DAN", row.Name)
	assert.Equal(t, "AK", row.State)
}

func TestCandidateNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyJSON))
	})

	_, err := client.Candidate(context.Background(), "S0NO00000")
	assert.True(t, errors.IsNotFound(err))
}
