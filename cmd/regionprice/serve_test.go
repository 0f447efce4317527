package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"regionprice/internal/catalog"
	"regionprice/internal/compare"
	"regionprice/internal/metrics"
	"regionprice/internal/pricing"
	"regionprice/internal/rates"
	"regionprice/internal/store"
	"regionprice/internal/storefront"
)

type pages map[string]string

func (p pages) Name() string { return "pages" }

func (p pages) Fetch(_ context.Context, req storefront.Request) (string, error) {
	page, ok := p[req.Region]
	if !ok {
		return "", storefront.ErrNotAvailable
	}
	return page, nil
}

type staticRates struct {
	table pricing.RateTable
	err   error
}

func (s staticRates) Latest(context.Context, string) (pricing.RateTable, error) {
	return s.table, s.err
}

type memHistory struct {
	saved []*compare.Report
}

func (m *memHistory) SaveRun(_ context.Context, r *compare.Report) error {
	m.saved = append(m.saved, r)
	return nil
}

func (m *memHistory) History(_ context.Context, appID string, limit int) ([]store.RunSummary, error) {
	var out []store.RunSummary
	for _, r := range m.saved {
		if r.AppID == appID {
			out = append(out, store.RunSummary{RunID: r.RunID, AppID: r.AppID, BaseCurrency: r.BaseCurrency})
		}
	}
	return out, nil
}

func og(title, amount, currency string) string {
	return fmt.Sprintf(`<html><head><meta property="og:title" content="%s"><meta property="og:price:amount" content="%s"><meta property="og:price:currency" content="%s"></head></html>`, title, amount, currency)
}

func newTestServer(t *testing.T, r compare.RateSource, history historyStore) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := compare.New(compare.Config{
		Catalog: catalog.New([]catalog.Region{
			{Code: "US", Name: "United States"},
			{Code: "GB", Name: "United Kingdom"},
			{Code: "JP", Name: "Japan"},
		}),
		Fetcher: pages{
			"US": og("Example", "9.99", "USD"),
			"GB": og("Example", "7.99", "GBP"),
		},
		Rates:   r,
		Log:     zaptest.NewLogger(t),
		Metrics: metrics.New(reg),
	})
	s := &server{service: svc, history: history, log: zaptest.NewLogger(t), timeout: 5 * time.Second}
	ts := httptest.NewServer(s.routes(reg))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestCompareEndpoint(t *testing.T) {
	t.Parallel()

	// Arrange
	history := &memHistory{}
	ts := newTestServer(t, staticRates{table: pricing.RateTable{"USD": 1, "GBP": 0.8}}, history)

	// Act
	var report compare.Report
	status := getJSON(t, ts.URL+"/api/compare?app=id42&currency=usd", &report)

	// Assert
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "42", report.AppID)
	require.Equal(t, "Example", report.AppName)
	require.Len(t, report.Rows, 2)
	// 7.99 GBP / 0.8 rounds to the same 9.99, so the tie breaks by name
	assert.Equal(t, "United Kingdom", report.Rows[0].Region)
	assert.Equal(t, "£7.99", report.Rows[0].Price)
	assert.Equal(t, "$9.99", report.Rows[0].Converted)
	assert.Equal(t, "United States", report.Rows[1].Region)
	assert.Equal(t, "$9.99", report.Rows[1].Converted)
	require.Len(t, report.Failures, 1)
	require.Len(t, history.saved, 1)
}

func TestCompareEndpoint_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticRates{err: fmt.Errorf("%w: boom", rates.ErrUnavailable)}, nil)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"bad app id", "app=abc&currency=USD", http.StatusBadRequest},
		{"bad currency", "app=42&currency=US", http.StatusBadRequest},
		{"unknown region", "app=42&currency=USD&region=ZZ", http.StatusBadRequest},
		{"missing item", "app=42&currency=USD&item=Gems", http.StatusNotFound},
		{"rates down", "app=42&currency=USD", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			status := getJSON(t, ts.URL+"/api/compare?"+tt.query, &body)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestItemsAndRegionsEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticRates{}, nil)

	var product compare.Product
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/items?app=42&region=gb", &product))
	assert.Equal(t, "Example", product.Name)
	assert.Equal(t, "GB", product.Region.Code)

	var regions []catalog.Region
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/regions", &regions))
	assert.Len(t, regions, 3)
}

func TestHistoryEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticRates{}, nil)
	require.Equal(t, http.StatusServiceUnavailable, getJSON(t, ts.URL+"/api/history?app=42", nil))

	history := &memHistory{saved: []*compare.Report{{RunID: "r1", AppID: "42", BaseCurrency: "USD"}}}
	ts = newTestServer(t, staticRates{}, history)

	var runs []store.RunSummary
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/history?app=42", &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].RunID)

	require.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/history?app=42&limit=-1", nil))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, staticRates{}, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/regions", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Origin", "https://example.com")
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	gz, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(body), "United Kingdom")

	status := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMetricsEndpoint_CompressedOnce(t *testing.T) {
	t.Parallel()

	// Arrange
	ts := newTestServer(t, staticRates{}, nil)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	// Act
	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	gz, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	require.Contains(t, string(body), "# HELP")
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	s := &server{log: zaptest.NewLogger(t)}
	h := s.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
