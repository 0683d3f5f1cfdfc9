package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main":{"temp":21.5},"weather":[{"main":"Clouds"}]}`))
	}))
	defer srv.Close()

	c := &Client{HTTP: &http.Client{Transport: rewriteHostTransport{target: srv.URL}}}

	snap, err := c.Fetch(context.Background(), "Oslo", "celsius", "key")
	require.NoError(t, err)
	assert.Equal(t, 21.5, snap.TemperatureC)
	assert.Equal(t, "Clouds", snap.Condition)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &Client{HTTP: &http.Client{Transport: rewriteHostTransport{target: srv.URL}}}
	_, err := c.Fetch(context.Background(), "Oslo", "celsius", "bad-key")
	assert.Error(t, err)
}

// rewriteHostTransport sends every request to target regardless of the
// request's original URL, so tests can exercise Client.Fetch (which hits a
// fixed production host) against an httptest server.
type rewriteHostTransport struct {
	target string
}

func (rt rewriteHostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	u := *req.URL
	targetURL, err := url.Parse(rt.target)
	if err != nil {
		return nil, err
	}
	u.Scheme = targetURL.Scheme
	u.Host = targetURL.Host
	req2 := req.Clone(req.Context())
	req2.URL = &u
	req2.Host = targetURL.Host
	return http.DefaultTransport.RoundTrip(req2)
}
