package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = Rdb.Close() })
	return mr
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2024, time.May, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, 90*time.Minute, UntilMidnight(now))

	tbilisi := time.FixedZone("UTC+4", 4*3600)
	// 第比利斯 02:00 即 UTC 前一天 22:00
	local := time.Date(2024, time.May, 2, 2, 0, 0, 0, tbilisi)
	assert.Equal(t, 2*time.Hour, UntilMidnight(local))
}

func TestSetWithMidnightExpiration(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, SetWithMidnightExpiration(ctx, "k", "v"))
	ttl := mr.TTL("k")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 24*time.Hour)

	v, err := GetValue(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestGetValue_Missing(t *testing.T) {
	setupRedis(t)
	v, err := GetValue(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestGetDel(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, SetWithExpiration(ctx, "state", "1", time.Minute))

	v, err := GetDel(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.False(t, mr.Exists("state"))

	v, err = GetDel(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestTryLockAndUnLock(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, "lock:a", "owner-1", time.Minute, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TryLock(ctx, "lock:a", "owner-2", time.Minute, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	UnLock(ctx, "lock:a", "owner-2")
	assert.True(t, mr.Exists("lock:a"))

	UnLock(ctx, "lock:a", "owner-1")
	assert.False(t, mr.Exists("lock:a"))
}

func TestDeleteKey(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, SetWithExpiration(ctx, "a", "1", time.Minute))
	require.NoError(t, SetWithExpiration(ctx, "b", "1", time.Minute))

	require.NoError(t, DeleteKey(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	assert.NoError(t, DeleteKey(ctx))
}
