package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"regionprice/internal/catalog"
	"regionprice/internal/collect"
	"regionprice/internal/compare"
	"regionprice/internal/config"
	"regionprice/internal/httpx"
	"regionprice/internal/metrics"
	"regionprice/internal/rates"
	"regionprice/internal/store"
	"regionprice/internal/storefront"
	"regionprice/internal/storefront/cache"
	"regionprice/internal/storefront/ratelimit"
)

type app struct {
	registry *prometheus.Registry
	service  *compare.Service
	// history is nil unless database.url is set.
	history *store.Store
	closers []func() error
}

// newApp wires the storefront chain, rate client and optional backends from
// cfg. progress, if set, sees every region outcome as it arrives.
func newApp(ctx context.Context, cfg config.Config, log *zap.Logger, progress func(collect.Outcome)) (_ *app, err error) {
	a := &app{registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	regions, err := regionCatalog(cfg)
	if err != nil {
		return nil, err
	}

	fetcher, err := a.storefrontChain(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts := []collect.Option{
		collect.WithLogger(log),
		collect.WithMetrics(m),
		collect.WithConcurrency(cfg.Storefront.MaxConcurrency),
	}
	if progress != nil {
		opts = append(opts, collect.OnOutcome(progress))
	}

	rateClient := rates.NewClient(
		rates.WithBaseURL(cfg.Rates.BaseURL),
		rates.WithHTTPClient(httpx.New(httpx.Options{Timeout: cfg.Rates.Timeout(), UserAgent: cfg.Storefront.UserAgent})),
	)

	a.service = compare.New(compare.Config{
		Catalog:   regions,
		Fetcher:   fetcher,
		Collector: collect.New(fetcher, opts...),
		Rates:     rateClient,
		Log:       log,
		Metrics:   m,
	})

	if cfg.Database.URL != "" {
		s, err := store.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
		a.history = s
	}
	return a, nil
}

// regionCatalog narrows the built-in catalog to storefront.regions when set.
func regionCatalog(cfg config.Config) (*catalog.Catalog, error) {
	c := catalog.Default()
	if len(cfg.Storefront.Regions) == 0 {
		return c, nil
	}
	return c.Subset(cfg.Storefront.Regions)
}

// storefrontChain builds fetch -> rate limit -> page cache, so cache hits
// never spend rate-limit tokens.
func (a *app) storefrontChain(ctx context.Context, cfg config.Config, log *zap.Logger) (storefront.Fetcher, error) {
	sf := cfg.Storefront
	client := httpx.New(httpx.Options{Timeout: sf.Timeout(), UserAgent: sf.UserAgent})

	var f storefront.Fetcher = storefront.NewHTTPFetcher(storefront.Config{URLTemplate: sf.URLTemplate}, client)
	f = ratelimit.Wrap(f, sf.MaxRequestsPerMinute, sf.Burst, sf.MinInterval())

	if sf.CacheTTL() <= 0 {
		return f, nil
	}
	var backend cache.Store
	if cfg.Redis.Address != "" {
		r, err := cache.NewRedis(ctx, cache.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r.Close)
		backend = r
	} else {
		backend = cache.NewMemory(sf.CacheMaxItems)
	}
	return &cache.Fetcher{F: f, Store: backend, TTL: sf.CacheTTL(), Log: log}, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
