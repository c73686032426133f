package memory

import (
	"sync"
	"testing"

	"meetlive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_GetOrCreate(t *testing.T) {
	registry := NewSessionRegistry()

	sess := registry.GetOrCreate("AB12CD")
	require.NotNil(t, sess)
	assert.Equal(t, domain.SessionCode("AB12CD"), sess.Code)
	assert.Nil(t, sess.Owner)
	assert.Empty(t, sess.Members)

	again := registry.GetOrCreate("AB12CD")
	assert.Same(t, sess, again)
	assert.Equal(t, 1, registry.Len())
}

func TestSessionRegistry_GetAbsent(t *testing.T) {
	registry := NewSessionRegistry()

	_, ok := registry.Get("NOPE99")
	assert.False(t, ok)
}

func TestSessionRegistry_Destroy(t *testing.T) {
	registry := NewSessionRegistry()

	registry.GetOrCreate("AB12CD")
	registry.Destroy("AB12CD")

	_, ok := registry.Get("AB12CD")
	assert.False(t, ok)

	// Destroying an unknown code is a no-op.
	registry.Destroy("NOPE99")
	assert.Equal(t, 0, registry.Len())
}

func TestSessionRegistry_Codes(t *testing.T) {
	registry := NewSessionRegistry()

	registry.GetOrCreate("AAA111")
	registry.GetOrCreate("BBB222")

	codes := registry.Codes()
	assert.ElementsMatch(t, []domain.SessionCode{"AAA111", "BBB222"}, codes)
}

func TestSessionRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := NewSessionRegistry()

	var wg sync.WaitGroup
	sessions := make([]*domain.Session, 16)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = registry.GetOrCreate("AB12CD")
		}(i)
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, 1, registry.Len())
}
