package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestNoAuth(t *testing.T) {
	req := newRequest(t, "https://api.open.fec.gov/v1/candidates/")
	(&NoAuth{}).Apply(req)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.URL.RawQuery)
}

func TestBearerAuth(t *testing.T) {
	req := newRequest(t, "https://example.supabase.co/rest/v1/candidates")
	(&BearerAuth{Token: "tok-123"}).Apply(req)
	assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req := newRequest(t, "https://example.supabase.co/rest/v1/candidates")
	(&HeaderAuth{Header: "apikey", Value: "key-456"}).Apply(req)
	assert.Equal(t, "key-456", req.Header.Get("apikey"))
}

func TestQueryAuth(t *testing.T) {
	t.Run("adds parameter", func(t *testing.T) {
		req := newRequest(t, "https://api.open.fec.gov/v1/candidate/S8AK00090/totals/")
		(&QueryAuth{Param: "api_key", Key: "DEMO_KEY"}).Apply(req)
		assert.Equal(t, "DEMO_KEY", req.URL.Query().Get("api_key"))
	})

	t.Run("preserves existing query", func(t *testing.T) {
		req := newRequest(t, "https://api.open.fec.gov/v1/candidate/S8AK00090/totals/?cycle=2022")
		(&QueryAuth{Param: "api_key", Key: "DEMO_KEY"}).Apply(req)
		assert.Equal(t, "2022", req.URL.Query().Get("cycle"))
		assert.Equal(t, "DEMO_KEY", req.URL.Query().Get("api_key"))
	})
}

func TestSupabaseAuth(t *testing.T) {
	t.Run("separate token", func(t *testing.T) {
		req := newRequest(t, "https://example.supabase.co/rest/v1/quarterly_financials")
		(&SupabaseAuth{APIKey: "anon-key", Token: "service-token"}).Apply(req)
		assert.Equal(t, "anon-key", req.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-token", req.Header.Get("Authorization"))
	})

	t.Run("api key doubles as bearer", func(t *testing.T) {
		req := newRequest(t, "https://example.supabase.co/rest/v1/quarterly_financials")
		(&SupabaseAuth{APIKey: "service-key"}).Apply(req)
		assert.Equal(t, "service-key", req.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", req.Header.Get("Authorization"))
	})
}

func TestClientAppliesAuth(t *testing.T) {
	var gotAPIKey, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.URL.Query().Get("api_key")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(&QueryAuth{Param: "api_key", Key: "DEMO_KEY"})
	resp, err := c.Get(context.Background(), srv.URL+"/v1/candidates/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "DEMO_KEY", gotAPIKey)
	assert.Equal(t, "application/json", gotAccept)
}
