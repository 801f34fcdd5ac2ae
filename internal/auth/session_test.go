package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_CreateAndResolve(t *testing.T) {
	store := NewStore(time.Hour)

	id := store.Create(42)
	assert.NotEmpty(t, id)

	userID, ok := store.Resolve(id)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestStore_ResolveUnknown(t *testing.T) {
	store := NewStore(time.Hour)

	_, ok := store.Resolve("no-such-session")
	assert.False(t, ok)
}

func TestStore_DestroyIsIdempotent(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Create(7)

	store.Destroy(id)
	_, ok := store.Resolve(id)
	assert.False(t, ok)

	// Second destroy is a no-op, not an error.
	store.Destroy(id)
	_, ok = store.Resolve(id)
	assert.False(t, ok)
}

func TestStore_ExpiredSessionResolvesAsAbsent(t *testing.T) {
	store := NewStore(time.Hour)
	id := store.Create(7)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok := store.Resolve(id)
	assert.False(t, ok)
}

func TestStore_PruneExpired(t *testing.T) {
	store := NewStore(time.Hour)
	stale := store.Create(1)
	store.Create(2)

	// Age only the first entry past its deadline.
	store.mu.Lock()
	entry := store.sessions[stale]
	entry.expiresAt = time.Now().Add(-time.Minute)
	store.sessions[stale] = entry
	store.mu.Unlock()

	removed := store.PruneExpired()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	assert.Equal(t, 0, store.PruneExpired())
}

func TestStore_SessionsAreDistinct(t *testing.T) {
	store := NewStore(time.Hour)

	first := store.Create(1)
	second := store.Create(1)
	assert.NotEqual(t, first, second)

	store.Destroy(first)
	_, ok := store.Resolve(second)
	assert.True(t, ok)
}
