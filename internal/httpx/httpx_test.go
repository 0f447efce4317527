package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"regionprice/internal/httpx"
)

func TestClient_DefaultHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c := httpx.New(httpx.Options{Headers: map[string]string{"Accept-Language": "en-US"}})

	res, err := c.Get(t.Context(), srv.URL)
	require.NoError(t, err)
	res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, httpx.DefaultUserAgent, gotUA)
	require.Equal(t, "en-US", gotLang)
}

func TestClient_RequestHeadersWin(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	t.Cleanup(srv.Close)

	c := httpx.New(httpx.Options{UserAgent: "configured"})
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "explicit")

	res, err := c.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, "explicit", gotUA)
}
