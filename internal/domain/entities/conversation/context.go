// Package conversation defines the per-user dialogue session entities.
package conversation

import (
	"fmt"
	"sync"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/security"
)

// State is the lifecycle state of a dialogue session.
type State string

const (
	StateInitial          State = "INITIAL"
	StateGatheringInfo    State = "GATHERING_INFO"
	StateConfirmingParams State = "CONFIRMING_PARAMS"
	StateCreatingCampaign State = "CREATING_CAMPAIGN"
	StateCompleted        State = "COMPLETED"
	StateError            State = "ERROR"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentCreateCampaign     Intent = "CREATE_CAMPAIGN"
	IntentModifyCampaign     Intent = "MODIFY_CAMPAIGN"
	IntentGetAdvice          Intent = "GET_ADVICE"
	IntentAnalyzePerformance Intent = "ANALYZE_PERFORMANCE"
	IntentOptimizeBudget     Intent = "OPTIMIZE_BUDGET"
	IntentUnknown            Intent = "UNKNOWN"
)

// ParseIntent maps a raw intent label onto a known Intent, falling back
// to IntentUnknown for anything unrecognized.
func ParseIntent(label string) Intent {
	switch Intent(label) {
	case IntentCreateCampaign, IntentModifyCampaign, IntentGetAdvice,
		IntentAnalyzePerformance, IntentOptimizeBudget:
		return Intent(label)
	default:
		return IntentUnknown
	}
}

// Context holds the mutable state of one user's dialogue session.
//
// All mutation must happen while holding Mu; the session store hands out
// shared pointers and concurrent messages for the same user would otherwise
// race on the parameter maps and state field.
type Context struct {
	SessionID           string         `json:"sessionId"`
	UserID              string         `json:"userId"`
	StartTime           time.Time      `json:"startTime"`
	LastUpdateTime      time.Time      `json:"lastUpdateTime"`
	State               State          `json:"state"`
	Intent              Intent         `json:"intent"`
	Parameters          map[string]any `json:"parameters"`
	ConfirmedParameters map[string]any `json:"confirmedParameters"`
	CurrentQuestion     string         `json:"currentQuestion,omitempty"`
	TurnCount           int            `json:"turnCount"`

	Mu sync.Mutex `json:"-"`
}

// NewContext creates a fresh session for a user in the INITIAL state.
func NewContext(userID string) *Context {
	now := time.Now().UTC()
	return &Context{
		SessionID:           security.GenerateULID(),
		UserID:              userID,
		StartTime:           now,
		LastUpdateTime:      now,
		State:               StateInitial,
		Intent:              IntentUnknown,
		Parameters:          make(map[string]any),
		ConfirmedParameters: make(map[string]any),
	}
}

func (c *Context) touch() {
	c.LastUpdateTime = time.Now().UTC()
}

// SetState transitions the session to a new state.
func (c *Context) SetState(state State) {
	c.State = state
	c.touch()
}

// SetIntent records the most recently classified intent.
func (c *Context) SetIntent(intent Intent) {
	c.Intent = intent
	c.touch()
}

// SetCurrentQuestion records the follow-up question last surfaced to the user.
func (c *Context) SetCurrentQuestion(question string) {
	c.CurrentQuestion = question
	c.touch()
}

// IncrementTurnCount bumps the turn counter for an inbound message.
func (c *Context) IncrementTurnCount() {
	c.TurnCount++
	c.touch()
}

// AddParameter stores a collected-but-unconfirmed parameter (last write wins).
func (c *Context) AddParameter(key string, value any) {
	c.Parameters[key] = value
	c.touch()
}

// AddConfirmedParameter stores a parameter the user explicitly confirmed.
func (c *Context) AddConfirmedParameter(key string, value any) {
	c.ConfirmedParameters[key] = value
	c.touch()
}

// HasParameter reports whether a parameter is present in either map.
func (c *Context) HasParameter(key string) bool {
	if _, ok := c.Parameters[key]; ok {
		return true
	}
	_, ok := c.ConfirmedParameters[key]
	return ok
}

// GetParameter reads a parameter by name. The unconfirmed Parameters map
// deliberately takes precedence over ConfirmedParameters when both hold the
// key; callers that want confirmation to win must read ConfirmedParameters
// directly.
func (c *Context) GetParameter(key string) any {
	if v, ok := c.Parameters[key]; ok {
		return v
	}
	return c.ConfirmedParameters[key]
}

// IsComplete reports whether the session reached the COMPLETED state.
func (c *Context) IsComplete() bool {
	return c.State == StateCompleted
}

// NeedsMoreInfo reports whether the session is still gathering parameters.
func (c *Context) NeedsMoreInfo() bool {
	return c.State == StateGatheringInfo
}

// IsConfirming reports whether the session is awaiting parameter confirmation.
func (c *Context) IsConfirming() bool {
	return c.State == StateConfirmingParams
}

func (c *Context) String() string {
	return fmt.Sprintf("Context{sessionId=%s, userId=%s, state=%s, intent=%s, turnCount=%d}",
		c.SessionID, c.UserID, c.State, c.Intent, c.TurnCount)
}
