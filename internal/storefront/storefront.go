// Package storefront fetches App Store product pages, one region at a time.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"

	"regionprice/internal/httpx"
)

// DefaultURLTemplate is the product page address. {region} is the lower-case
// storefront code and {app} the numeric app id.
const DefaultURLTemplate = "https://apps.apple.com/{region}/app/id{app}"

const defaultMaxBodyBytes = 8 << 20

// ErrNotAvailable means the storefront answered 404: the app is not sold in
// that region.
var ErrNotAvailable = errors.New("app not available in this storefront")

// Request addresses one product page.
type Request struct {
	AppID  string
	Region string
}

// Fetcher returns the raw page for a request.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) (string, error)
}

// Config configures HTTPFetcher.
type Config struct {
	URLTemplate  string
	MaxBodyBytes int64
}

// HTTPFetcher fetches pages over HTTP. Concurrent requests for the same URL
// share one round trip.
type HTTPFetcher struct {
	cfg    Config
	client *httpx.Client
	group  singleflight.Group
}

func NewHTTPFetcher(cfg Config, client *httpx.Client) *HTTPFetcher {
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultURLTemplate
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if client == nil {
		client = httpx.New(httpx.Options{})
	}
	return &HTTPFetcher{cfg: cfg, client: client}
}

func (f *HTTPFetcher) Name() string { return "appstore" }

// URL renders the page address for req.
func (f *HTTPFetcher) URL(req Request) string {
	return strings.NewReplacer(
		"{region}", strings.ToLower(req.Region),
		"{app}", req.AppID,
	).Replace(f.cfg.URLTemplate)
}

// Fetch returns the page for req. The shared round trip is detached from any
// one caller's cancellation and bounded by the client timeout; each caller
// still stops waiting when its own ctx is done.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (string, error) {
	url := f.URL(req)
	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(url, func() (any, error) {
		return f.get(shared, url)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (f *HTTPFetcher) get(ctx context.Context, url string) (string, error) {
	res, err := f.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return "", ErrNotAvailable
	case res.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("rate limited")
	case res.StatusCode < 200 || res.StatusCode > 299:
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(b), nil
}
