package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextStartsInitial(t *testing.T) {
	ctx := NewContext("user-1")

	require.NotEmpty(t, ctx.SessionID)
	assert.Equal(t, "user-1", ctx.UserID)
	assert.Equal(t, StateInitial, ctx.State)
	assert.Equal(t, IntentUnknown, ctx.Intent)
	assert.Equal(t, 0, ctx.TurnCount)
	assert.NotNil(t, ctx.Parameters)
	assert.NotNil(t, ctx.ConfirmedParameters)
}

func TestHasParameterChecksBothMaps(t *testing.T) {
	ctx := NewContext("user-1")

	assert.False(t, ctx.HasParameter("budget"))

	ctx.AddParameter("budget", 1000.0)
	assert.True(t, ctx.HasParameter("budget"))

	ctx2 := NewContext("user-2")
	ctx2.AddConfirmedParameter("budget", 2000.0)
	assert.True(t, ctx2.HasParameter("budget"))
}

func TestGetParameterPrefersUnconfirmed(t *testing.T) {
	ctx := NewContext("user-1")
	ctx.AddConfirmedParameter("budget", 2000.0)
	ctx.AddParameter("budget", 1000.0)

	assert.Equal(t, 1000.0, ctx.GetParameter("budget"))

	ctx.Parameters = map[string]any{}
	assert.Equal(t, 2000.0, ctx.GetParameter("budget"))
}

func TestTouchUpdatesLastUpdateTime(t *testing.T) {
	ctx := NewContext("user-1")
	before := ctx.LastUpdateTime

	ctx.IncrementTurnCount()

	assert.Equal(t, 1, ctx.TurnCount)
	assert.False(t, ctx.LastUpdateTime.Before(before))
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentCreateCampaign, ParseIntent("CREATE_CAMPAIGN"))
	assert.Equal(t, IntentOptimizeBudget, ParseIntent("OPTIMIZE_BUDGET"))
	assert.Equal(t, IntentUnknown, ParseIntent("MAKE_COFFEE"))
	assert.Equal(t, IntentUnknown, ParseIntent(""))
}

func TestStatePredicates(t *testing.T) {
	ctx := NewContext("user-1")

	ctx.SetState(StateGatheringInfo)
	assert.True(t, ctx.NeedsMoreInfo())

	ctx.SetState(StateConfirmingParams)
	assert.True(t, ctx.IsConfirming())

	ctx.SetState(StateCompleted)
	assert.True(t, ctx.IsComplete())
}
