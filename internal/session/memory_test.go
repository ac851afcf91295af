package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	t.Cleanup(s.Stop)
	return s
}

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, s.Set(ctx, "key1", userID, time.Hour))

	got, err := s.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	require.NoError(t, s.Delete(ctx, "key1"))
	_, err = s.Get(ctx, "key1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ExpiredEntryRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "key1", uuid.New(), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get(ctx, "key1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UnknownKey(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteAbsentKeyIsNoError(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "nope"))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key(NewTokenMust(t))
			userID := uuid.New()
			assert.NoError(t, s.Set(ctx, key, userID, time.Hour))
			got, err := s.Get(ctx, key)
			if assert.NoError(t, err) {
				assert.Equal(t, userID, got)
			}
			assert.NoError(t, s.Delete(ctx, key))
		}(i)
	}
	wg.Wait()
}

func NewTokenMust(t *testing.T) string {
	t.Helper()
	token, err := NewToken()
	require.NoError(t, err)
	return token
}

func TestNewToken_UniqueAndOpaque(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewTokenMust(t)
		require.False(t, seen[token], "token generated twice")
		seen[token] = true
	}
}

func TestKey_IsDigestNotToken(t *testing.T) {
	token := NewTokenMust(t)
	key := Key(token)
	assert.NotEqual(t, token, key)
	assert.Len(t, key, 64) // hex sha256
	assert.Equal(t, key, Key(token), "key derivation must be deterministic")
}
