package stores

import (
	"sync"
	"testing"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateFirstSessionWins(t *testing.T) {
	store := NewSessionsStore(nil)

	first := store.GetOrCreate("user-1")
	first.AddParameter("budget", 500.0)

	second := store.GetOrCreate("user-1")

	assert.Same(t, first, second)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 500.0, second.GetParameter("budget"))
	assert.Equal(t, 1, store.Count())
}

func TestGetWithoutCreate(t *testing.T) {
	store := NewSessionsStore(nil)

	_, exists := store.Get("missing")
	assert.False(t, exists)

	created := store.GetOrCreate("user-1")
	got, exists := store.Get("user-1")
	require.True(t, exists)
	assert.Same(t, created, got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewSessionsStore(nil)
	store.GetOrCreate("user-1")

	store.Delete("user-1")
	_, exists := store.Get("user-1")
	assert.False(t, exists)

	store.Delete("user-1")
	assert.Equal(t, 0, store.Count())
}

func TestRangeAllowsDeletion(t *testing.T) {
	store := NewSessionsStore(nil)
	store.GetOrCreate("user-1")
	store.GetOrCreate("user-2")
	store.GetOrCreate("user-3")

	visited := 0
	store.Range(func(userID string, session *conversation.Context) bool {
		visited++
		store.Delete(userID)
		return true
	})

	assert.Equal(t, 3, visited)
	assert.Equal(t, 0, store.Count())
}

func TestConcurrentGetOrCreateReturnsSingleSession(t *testing.T) {
	store := NewSessionsStore(nil)

	var wg sync.WaitGroup
	sessionIDs := make([]string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionIDs[i] = store.GetOrCreate("user-1").SessionID
		}(i)
	}
	wg.Wait()

	for _, id := range sessionIDs[1:] {
		assert.Equal(t, sessionIDs[0], id)
	}
	assert.Equal(t, 1, store.Count())
}
