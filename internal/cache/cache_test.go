package cache_test

import (
	"context"
	"testing"
	"time"

	"resumebuilder/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (cache.DocumentCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, ttl), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newRedisCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "a1", cache.FormatPDF)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a1", cache.FormatPDF, []byte("%PDF-1.3")))

	data, ok, err := c.Get(ctx, "a1", cache.FormatPDF)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.3"), data)

	_, ok, err = c.Get(ctx, "a1", cache.FormatPNG)
	require.NoError(t, err)
	assert.False(t, ok, "formats are cached independently")
}

func TestRedisCache_DeleteRemovesEveryFormat(t *testing.T) {
	c, _ := newRedisCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a1", cache.FormatPDF, []byte("pdf")))
	require.NoError(t, c.Set(ctx, "a1", cache.FormatPNG, []byte("png")))
	require.NoError(t, c.Delete(ctx, "a1"))
	require.NoError(t, c.Delete(ctx, "a1"))

	for _, f := range []cache.Format{cache.FormatPDF, cache.FormatPNG} {
		_, ok, err := c.Get(ctx, "a1", f)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a1", cache.FormatPDF, []byte("pdf")))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "a1", cache.FormatPDF)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := cache.NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestNopCache(t *testing.T) {
	c := cache.NewNopCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a1", cache.FormatPDF, []byte("pdf")))
	_, ok, err := c.Get(ctx, "a1", cache.FormatPDF)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "a1"))
}
