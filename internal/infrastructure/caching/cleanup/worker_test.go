package cleanup

import (
	"testing"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/stores"
	"github.com/stretchr/testify/assert"
)

func TestSweepEvictsIdleSessions(t *testing.T) {
	store := stores.NewSessionsStore(nil)

	idle := store.GetOrCreate("idle-user")
	idle.LastUpdateTime = time.Now().UTC().Add(-2 * time.Hour)

	fresh := store.GetOrCreate("fresh-user")
	fresh.LastUpdateTime = time.Now().UTC()

	worker := NewWorker(store, Config{IdleTTL: time.Hour, Interval: time.Minute}, nil)
	evicted := worker.Sweep()

	assert.Equal(t, 1, evicted)
	_, exists := store.Get("idle-user")
	assert.False(t, exists)
	_, exists = store.Get("fresh-user")
	assert.True(t, exists)
}

func TestSweepKeepsEverythingWithinTTL(t *testing.T) {
	store := stores.NewSessionsStore(nil)
	store.GetOrCreate("user-1")
	store.GetOrCreate("user-2")

	worker := NewWorker(store, Config{IdleTTL: time.Hour, Interval: time.Minute}, nil)

	assert.Equal(t, 0, worker.Sweep())
	assert.Equal(t, 2, store.Count())
}
