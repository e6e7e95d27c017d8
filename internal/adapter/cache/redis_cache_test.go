package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursely/course-api/internal/cart"
)

func testClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCartStoreRoundtrip(t *testing.T) {
	_, rdb := testClient(t)
	store := NewRedisCartStore(rdb, time.Hour)

	items := []cart.Item{
		{CourseID: "c1", Title: "Go 101", Slug: "go-101", PriceCents: 5000, Currency: "USD", Quantity: 2},
		{CourseID: "c2", Title: "SQL 201", Slug: "sql-201", PriceCents: 3000, Currency: "USD", Quantity: 1},
	}
	require.NoError(t, store.Save("sess-1", items))

	loaded, found, err := store.Load("sess-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, items, loaded)
}

func TestCartStoreMissingSession(t *testing.T) {
	_, rdb := testClient(t)
	store := NewRedisCartStore(rdb, time.Hour)

	items, found, err := store.Load("nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, items)
}

func TestCartStorePersistsOnlyItems(t *testing.T) {
	mr, rdb := testClient(t)
	store := NewRedisCartStore(rdb, time.Hour)

	require.NoError(t, store.Save("sess-1", []cart.Item{{CourseID: "c1", Quantity: 1}}))

	raw, err := mr.Get("cart:sess-1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"items"`)
	assert.NotContains(t, raw, "open")
	assert.NotContains(t, raw, "lastAdded")
}

func TestCartStoreTTL(t *testing.T) {
	mr, rdb := testClient(t)
	store := NewRedisCartStore(rdb, time.Hour)

	require.NoError(t, store.Save("sess-1", nil))
	assert.Equal(t, time.Hour, mr.TTL("cart:sess-1"))
}

func TestIdempotencyLockIsExclusive(t *testing.T) {
	_, rdb := testClient(t)
	idem := NewRedisIdempotencyStore(rdb, time.Hour)
	ctx := context.Background()

	ok, err := idem.TryLock(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = idem.TryLock(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Different scope, same key: independent locks.
	ok, err = idem.TryLock(ctx, "u2", "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyReleaseFreesKey(t *testing.T) {
	_, rdb := testClient(t)
	idem := NewRedisIdempotencyStore(rdb, time.Hour)
	ctx := context.Background()

	ok, err := idem.TryLock(ctx, "u1", "key-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, idem.Release(ctx, "u1", "key-1"))

	ok, err = idem.TryLock(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyRememberRecall(t *testing.T) {
	_, rdb := testClient(t)
	idem := NewRedisIdempotencyStore(rdb, time.Hour)
	ctx := context.Background()

	_, found, err := idem.Recall(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, idem.Remember(ctx, "u1", "key-1", "order-42"))

	id, found, err := idem.Recall(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "order-42", id)
}

func TestIdempotencyLockExpires(t *testing.T) {
	mr, rdb := testClient(t)
	idem := NewRedisIdempotencyStore(rdb, time.Minute)
	ctx := context.Background()

	ok, err := idem.TryLock(ctx, "u1", "key-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = idem.TryLock(ctx, "u1", "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCatalogCacheRoundtripAndInvalidate(t *testing.T) {
	_, rdb := testClient(t)
	c := NewRedisCatalogCache(rdb, time.Hour)
	ctx := context.Background()

	type view struct {
		Name string `json:"name"`
	}

	var out view
	found, err := c.GetJSON(ctx, "courses:public", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "courses:public", view{Name: "listing"}))

	found, err = c.GetJSON(ctx, "courses:public", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "listing", out.Name)

	require.NoError(t, c.Invalidate(ctx, "courses:public", "courses:admin"))

	found, err = c.GetJSON(ctx, "courses:public", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCatalogCacheInvalidateNoKeys(t *testing.T) {
	_, rdb := testClient(t)
	c := NewRedisCatalogCache(rdb, time.Hour)
	assert.NoError(t, c.Invalidate(context.Background()))
}
