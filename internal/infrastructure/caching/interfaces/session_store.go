// Package interfaces defines the session store contract consumed by the
// dialogue services.
package interfaces

import (
	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
)

// SessionStore is a concurrency-safe keyed store of dialogue sessions,
// one per user ID. GetOrCreate is first-session-wins: creating a session
// for an existing user returns the existing session unchanged.
type SessionStore interface {
	GetOrCreate(userID string) *conversation.Context
	Get(userID string) (*conversation.Context, bool)
	Delete(userID string)
	Count() int
	Range(fn func(userID string, session *conversation.Context) bool)
}
