// Package rates fetches the latest exchange rate table for a base currency
// from an open.er-api.com compatible endpoint. Tables are fetched once per
// comparison run; nothing is cached or retried here.
package rates

import (
	"net/http"
)

// defaultBaseURL serves the keyless v6 "latest" endpoint.
const defaultBaseURL = "https://open.er-api.com"

// HTTPClient is the transport the rate client sends through. *httpx.Client
// and *http.Client both satisfy it.
//
//go:generate mockgen -package=rates_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads rate tables from the exchange rate service.
type Client struct {
	// baseURL is joined with /v6/latest/{BASE}.
	baseURL    string
	httpClient HTTPClient
	// header is sent on every rate request, e.g. an API key for a paid mirror.
	header http.Header
}

type ClientOption func(*Client)

// WithBaseURL points the client at a mirror or a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces http.DefaultClient. Timeouts belong to the
// transport; Latest adds none of its own.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers to every rate request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

func NewClient(options ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}
