package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"regionprice/internal/storefront"
)

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) Name() string { return "fake" }

func (f *countingFetcher) Fetch(_ context.Context, req storefront.Request) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return "page:" + req.Region, nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}

func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("down")
}

func TestFetcher_HitsCacheWithinTTL(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{}
	c := &Fetcher{F: inner, Store: NewMemory(0), TTL: time.Minute, Log: zaptest.NewLogger(t)}
	req := storefront.Request{AppID: "1", Region: "US"}

	for range 3 {
		page, err := c.Fetch(t.Context(), req)
		require.NoError(t, err)
		require.Equal(t, "page:US", page)
	}
	require.EqualValues(t, 1, inner.calls.Load())

	_, err := c.Fetch(t.Context(), storefront.Request{AppID: "1", Region: "DE"})
	require.NoError(t, err)
	require.EqualValues(t, 2, inner.calls.Load())
}

func TestFetcher_DisabledWithoutTTL(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{}
	c := &Fetcher{F: inner, Store: NewMemory(0)}
	req := storefront.Request{AppID: "1", Region: "US"}

	_, _ = c.Fetch(t.Context(), req)
	_, _ = c.Fetch(t.Context(), req)
	require.EqualValues(t, 2, inner.calls.Load())
}

func TestFetcher_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{err: storefront.ErrNotAvailable}
	store := NewMemory(0)
	c := &Fetcher{F: inner, Store: store, TTL: time.Minute}

	_, err := c.Fetch(t.Context(), storefront.Request{AppID: "1", Region: "US"})
	require.ErrorIs(t, err, storefront.ErrNotAvailable)
	require.Zero(t, store.Len())
}

func TestFetcher_StoreFailureFallsThrough(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{}
	c := &Fetcher{F: inner, Store: failingStore{}, TTL: time.Minute, Log: zaptest.NewLogger(t)}

	page, err := c.Fetch(t.Context(), storefront.Request{AppID: "1", Region: "US"})
	require.NoError(t, err)
	require.Equal(t, "page:US", page)
}

func TestMemory_ExpiryAndCap(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewMemory(2)
	m.now = func() time.Time { return now }
	ctx := t.Context()

	require.NoError(t, m.Set(ctx, "a", "A", time.Second))
	require.NoError(t, m.Set(ctx, "b", "B", time.Hour))

	v, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", v)

	now = now.Add(2 * time.Second)
	_, ok, _ = m.Get(ctx, "a")
	require.False(t, ok)

	// "a" is expired and goes first when the cap is exceeded.
	require.NoError(t, m.Set(ctx, "c", "C", time.Hour))
	require.Equal(t, 2, m.Len())
	_, ok, _ = m.Get(ctx, "b")
	require.True(t, ok)
	_, ok, _ = m.Get(ctx, "c")
	require.True(t, ok)

	// With nothing expired, an arbitrary older key is dropped but never the new one.
	require.NoError(t, m.Set(ctx, "d", "D", time.Hour))
	require.Equal(t, 2, m.Len())
	_, ok, _ = m.Get(ctx, "d")
	require.True(t, ok)
}

func TestRedis_GetSet(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisWithClient(client, "test:")
	t.Cleanup(func() { _ = store.Close() })
	ctx := t.Context()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "<html/>", time.Minute))
	require.True(t, mr.Exists("test:k"))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "<html/>", v)

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewRedis(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	store, err := NewRedis(t.Context(), RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	inner := &countingFetcher{}
	c := &Fetcher{F: inner, Store: store, TTL: time.Minute}
	req := storefront.Request{AppID: "9", Region: "JP"}
	_, err = c.Fetch(t.Context(), req)
	require.NoError(t, err)
	_, err = c.Fetch(t.Context(), req)
	require.NoError(t, err)
	require.EqualValues(t, 1, inner.calls.Load())
	require.True(t, mr.Exists("regionprice:page:"+Key("fake", req)))

	mr.Close()
	_, err = NewRedis(t.Context(), RedisConfig{Address: mr.Addr()})
	require.Error(t, err)
}
