// Package stores provides concrete session store implementations
package stores

import (
	"sync"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
)

// SessionsStore implements in-memory dialogue session storage keyed by
// user ID. The store-level lock guards the map; serialization of mutations
// within one session is the session's own Mu, held by the caller.
type SessionsStore struct {
	sessions map[string]*conversation.Context
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewSessionsStore creates a new sessions store
func NewSessionsStore(logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Cache().Info("Initializing sessions store")
	}
	return &SessionsStore{
		sessions: make(map[string]*conversation.Context),
		logger:   logger,
	}
}

// GetOrCreate returns the session for a user, creating one if absent.
// An existing session is always returned unchanged (first-session-wins).
func (ss *SessionsStore) GetOrCreate(userID string) *conversation.Context {
	start := time.Now()

	ss.mu.RLock()
	session, exists := ss.sessions[userID]
	ss.mu.RUnlock()
	if exists {
		if ss.logger != nil {
			ss.logger.LogCacheOperation("get_or_create", userID, true, time.Since(start))
		}
		return session
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	// Re-check under the write lock; another request may have created it.
	if session, exists = ss.sessions[userID]; exists {
		if ss.logger != nil {
			ss.logger.LogCacheOperation("get_or_create", userID, true, time.Since(start))
		}
		return session
	}

	session = conversation.NewContext(userID)
	ss.sessions[userID] = session

	if ss.logger != nil {
		ss.logger.LogCacheOperation("get_or_create", userID, false, time.Since(start))
		ss.logger.Cache().Info("Session created", "userId", userID, "sessionId", session.SessionID)
	}
	return session
}

// Get retrieves the session for a user without creating one.
func (ss *SessionsStore) Get(userID string) (*conversation.Context, bool) {
	start := time.Now()

	ss.mu.RLock()
	session, exists := ss.sessions[userID]
	ss.mu.RUnlock()

	if ss.logger != nil {
		ss.logger.LogCacheOperation("get", userID, exists, time.Since(start))
	}
	return session, exists
}

// Delete removes the session for a user. Deleting an absent session is a no-op.
func (ss *SessionsStore) Delete(userID string) {
	ss.mu.Lock()
	session, exists := ss.sessions[userID]
	delete(ss.sessions, userID)
	ss.mu.Unlock()

	if ss.logger != nil && exists {
		ss.logger.Cache().Info("Session removed", "userId", userID, "sessionId", session.SessionID, "state", string(session.State))
	}
}

// Count returns the number of active sessions.
func (ss *SessionsStore) Count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Range iterates sessions over a snapshot of the store, calling fn until it
// returns false. Sessions may be deleted from within fn.
func (ss *SessionsStore) Range(fn func(userID string, session *conversation.Context) bool) {
	ss.mu.RLock()
	snapshot := make(map[string]*conversation.Context, len(ss.sessions))
	for userID, session := range ss.sessions {
		snapshot[userID] = session
	}
	ss.mu.RUnlock()

	for userID, session := range snapshot {
		if !fn(userID, session) {
			return
		}
	}
}
