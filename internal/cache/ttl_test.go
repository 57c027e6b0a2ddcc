package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetThenGetWithinTTL(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 42, time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestTTLCache_ExpiresAfterTTL(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 42, -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_GetOrFetchCallsFetchOnlyOnce(t *testing.T) {
	c := NewTTLCache()
	calls := 0
	fetch := func() (any, error) {
		calls++
		return "value", nil
	}

	v1, err := c.GetOrFetch("k", time.Minute, fetch)
	require.NoError(t, err)
	v2, err := c.GetOrFetch("k", time.Minute, fetch)
	require.NoError(t, err)

	assert.Equal(t, "value", v1)
	assert.Equal(t, "value", v2)
	assert.Equal(t, 1, calls)
}

func TestTTLCache_GetOrFetchDoesNotCacheOnError(t *testing.T) {
	c := NewTTLCache()
	fetchErr := errors.New("boom")
	_, err := c.GetOrFetch("k", time.Minute, func() (any, error) {
		return nil, fetchErr
	})
	require.Error(t, err)

	_, ok := c.Get("k")
	assert.False(t, ok)
}
