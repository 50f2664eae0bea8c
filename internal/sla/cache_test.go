package sla

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheReadThrough(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	cache := newTTLCache[int](30*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	value, err := cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	value, err = cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, 1, calls)

	// A different key misses independently.
	_, err = cache.get(ctx, "other", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	cache := newTTLCache[int](30*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	value, err := cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	// Just before expiry the entry is still served.
	now = now.Add(30*time.Minute - time.Second)
	value, err = cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	// Past expiry the read is a miss and the expiry refreshes.
	now = now.Add(2 * time.Second)
	value, err = cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestTTLCacheClear(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	cache := newTTLCache[string](30*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	_, err := cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	cache.clear()
	_, err = cache.get(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTTLCacheErrorNotCached(t *testing.T) {
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	cache := newTTLCache[int](30*time.Minute, func() time.Time { return now })
	ctx := context.Background()

	boom := errors.New("store unavailable")
	calls := 0
	_, err := cache.get(ctx, "k", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := cache.get(ctx, "k", func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, value)
	assert.Equal(t, 2, calls)
}

func TestScopeKey(t *testing.T) {
	dept := "dep-1"
	unit := "unit-9"
	assert.Equal(t, "business_hours_null_null", scopeKey("business_hours", nil, nil))
	assert.Equal(t, "holidays_dep-1_null", scopeKey("holidays", &dept, nil))
	assert.Equal(t, "holidays_dep-1_unit-9", scopeKey("holidays", &dept, &unit))
}
