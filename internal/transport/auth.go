package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(a.Header, a.Value)
}

// QueryAuth implements API key as query parameter authentication.
// The FEC API authenticates this way (?api_key=...).
type QueryAuth struct {
	Param string
	Key   string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request) {
	if req.URL == nil {
		return
	}

	query := req.URL.Query()
	query.Set(a.Param, a.Key)
	req.URL.RawQuery = query.Encode()
}

// SupabaseAuth implements the header pair the hosted store expects: an
// apikey header plus an Authorization bearer token. When Token is empty
// the API key doubles as the bearer token, which is the store's convention
// for service-role access.
type SupabaseAuth struct {
	APIKey string
	Token  string
}

// Apply implements the Authenticator interface for SupabaseAuth.
func (a *SupabaseAuth) Apply(req *http.Request) {
	req.Header.Set("apikey", a.APIKey)

	token := a.Token
	if token == "" {
		token = a.APIKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
