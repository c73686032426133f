package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value")

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.SetWithTTL("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("key", "value")
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_InvalidateByPrefix(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("meeting:AB12CD", 1)
	c.Set("meeting:XYZ999", 2)
	c.Set("other", 3)

	c.Invalidate("meeting:")

	_, ok := c.Get("meeting:AB12CD")
	assert.False(t, ok)
	_, ok = c.Get("meeting:XYZ999")
	assert.False(t, ok)
	_, ok = c.Get("other")
	assert.True(t, ok)
}

func TestCache_GetOrSet(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	calls := 0
	fallback := func(ctx context.Context) (interface{}, error) {
		calls++
		return "computed", nil
	}

	got, err := c.GetOrSet(context.Background(), "key", fallback)
	require.NoError(t, err)
	assert.Equal(t, "computed", got)

	got, err = c.GetOrSet(context.Background(), "key", fallback)
	require.NoError(t, err)
	assert.Equal(t, "computed", got)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSetError(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	wantErr := errors.New("backend down")
	_, err := c.GetOrSet(context.Background(), "key", func(ctx context.Context) (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Failures are not cached.
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_Size(t *testing.T) {
	c := New(time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("expired", 3, -time.Second)

	assert.Equal(t, 2, c.Size())
}
