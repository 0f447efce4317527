// Package cache keeps recently fetched storefront pages for a TTL.
package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"regionprice/internal/storefront"
)

// Store is a page cache backend.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, page string, ttl time.Duration) error
}

// Fetcher serves pages from Store while fresh and fills it on a miss.
// Backend errors are logged and never fail a fetch.
type Fetcher struct {
	F     storefront.Fetcher
	Store Store
	TTL   time.Duration
	Log   *zap.Logger
}

func (c *Fetcher) Name() string { return c.F.Name() }

func Key(name string, req storefront.Request) string {
	return name + ":" + req.Region + ":" + req.AppID
}

func (c *Fetcher) Fetch(ctx context.Context, req storefront.Request) (string, error) {
	if c.Store == nil || c.TTL <= 0 {
		return c.F.Fetch(ctx, req)
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	key := Key(c.F.Name(), req)
	page, ok, err := c.Store.Get(ctx, key)
	if err != nil {
		log.Warn("page cache get failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return page, nil
	}

	page, err = c.F.Fetch(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.Store.Set(ctx, key, page, c.TTL); err != nil {
		log.Warn("page cache set failed", zap.String("key", key), zap.Error(err))
	}
	return page, nil
}
