package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/stores"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator returns canned responses in order and records every
// prompt it was asked to complete.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	err       error
	failAt    int
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	call := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)

	if g.err != nil && call == g.failAt {
		return "", g.err
	}
	if call < len(g.responses) {
		return g.responses[call], nil
	}
	return "ok", nil
}

func intentJSON(t *testing.T, intent string, params map[string]any, moreInfo bool, nextQuestion string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"intent":           intent,
		"confidence":       0.9,
		"extractedParams":  params,
		"requiresMoreInfo": moreInfo,
		"nextQuestion":     nextQuestion,
	})
	require.NoError(t, err)
	return string(payload)
}

func newTestConversationService(gen *scriptedGenerator) (*ConversationService, *stores.SessionsStore) {
	store := stores.NewSessionsStore(nil)
	tracker := performance.NewTracker(100)
	intents := NewIntentService(gen, nil)
	recommendations := NewRecommendationService(gen, nil, tracker)
	service := NewConversationService(store, intents, recommendations, gen, nil, tracker)
	return service, store
}

func TestFirstMessageCreatesSessionAndReusesIt(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		intentJSON(t, "CREATE_CAMPAIGN", nil, true, "What is the campaign name?"),
		intentJSON(t, "CREATE_CAMPAIGN", nil, true, "What is the budget?"),
	}}
	service, store := newTestConversationService(gen)

	service.ProcessMessage(context.Background(), "user-1", "I want to run a campaign")
	first, exists := store.Get("user-1")
	require.True(t, exists)
	firstID := first.SessionID
	assert.Equal(t, 1, first.TurnCount)

	service.ProcessMessage(context.Background(), "user-1", "something else")
	second, _ := store.Get("user-1")
	assert.Equal(t, firstID, second.SessionID)
	assert.Equal(t, 2, second.TurnCount)
	assert.Equal(t, 1, store.Count())
}

func TestNoExtractableFieldsKeepsGathering(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		intentJSON(t, "CREATE_CAMPAIGN", nil, true, "What is the campaign name?"),
	}}
	service, store := newTestConversationService(gen)

	response := service.ProcessMessage(context.Background(), "user-1", "I want to run a campaign")

	assert.Equal(t, conversation.ResponseGatheringInfo, response.Type)
	assert.True(t, response.RequiresUserAction)
	assert.Equal(t, "What is the campaign name?", response.NextQuestion)
	for _, key := range []string{"campaignName", "targetAudience", "budget", "duration"} {
		assert.Contains(t, response.MissingParameters, key)
	}

	session, _ := store.Get("user-1")
	assert.Equal(t, conversation.StateGatheringInfo, session.State)
	assert.Equal(t, conversation.IntentCreateCampaign, session.Intent)
}

func TestAllRequiredParametersInOneTurnProducesRecommendations(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		intentJSON(t, "CREATE_CAMPAIGN", map[string]any{
			"campaignName":   "Life Insurance Push",
			"targetAudience": "families",
			"budget":         "$200k",
			"duration":       "30 days",
		}, false, ""),
		"segment analysis text",
		"strategy analysis text",
		"email template text",
		"condition logic text",
		"journey design text",
		"A focused 30-day life insurance campaign for families.",
	}}
	service, store := newTestConversationService(gen)

	response := service.ProcessMessage(context.Background(), "user-1",
		"Create a campaign for life insurance, budget $200k, 30 days, target families")

	require.Equal(t, conversation.ResponseNodeRecommendations, response.Type)
	assert.True(t, response.RequiresUserAction)
	assert.Equal(t, "A focused 30-day life insurance campaign for families.", response.Summary)

	session, _ := store.Get("user-1")
	assert.Equal(t, conversation.StateConfirmingParams, session.State)
	assert.Equal(t, 200000.0, session.GetParameter("budget"))

	recommendations, ok := session.GetParameter("aiRecommendations").(map[string]any)
	require.True(t, ok)
	for _, kind := range []string{"segment", "strategy", "emailTemplate", "condition", "customerJourney"} {
		entry, ok := recommendations[kind].(map[string]any)
		require.True(t, ok, "missing recommendation kind %s", kind)
		assert.NotEmpty(t, entry["reasoning"])
	}
}

func TestRecommendationCallsRunInDependencyOrder(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		intentJSON(t, "CREATE_CAMPAIGN", map[string]any{
			"campaignName":   "Launch",
			"targetAudience": "developers",
			"budget":         5000,
			"duration":       "2 weeks",
		}, false, ""),
	}}
	service, _ := newTestConversationService(gen)

	service.ProcessMessage(context.Background(), "user-1", "create my campaign")

	// prompts[0] is intent classification; then the five node prompts.
	require.GreaterOrEqual(t, len(gen.prompts), 6)
	assert.Contains(t, gen.prompts[1], "target segment node")
	assert.Contains(t, gen.prompts[2], "delivery strategy node")
	assert.Contains(t, gen.prompts[3], "email template node")
	assert.Contains(t, gen.prompts[4], "condition judgment node")
	assert.Contains(t, gen.prompts[5], "customer journey node")
}

func TestClassificationFailureMovesSessionToError(t *testing.T) {
	gen := &scriptedGenerator{err: fmt.Errorf("model unavailable")}
	service, store := newTestConversationService(gen)

	response := service.ProcessMessage(context.Background(), "user-1", "hello")

	assert.Equal(t, conversation.ResponseError, response.Type)
	session, _ := store.Get("user-1")
	assert.Equal(t, conversation.StateError, session.State)

	// ERROR is terminal; the next message is gated, not reprocessed.
	next := service.ProcessMessage(context.Background(), "user-1", "hello again")
	assert.Equal(t, conversation.ResponseError, next.Type)
	assert.Equal(t, "END_SESSION", next.Action)
	assert.Equal(t, 2, session.TurnCount)
}

func TestRecommendationFailureReturnsErrorResponse(t *testing.T) {
	gen := &scriptedGenerator{
		responses: []string{
			intentJSON(t, "CREATE_CAMPAIGN", map[string]any{
				"campaignName":   "Launch",
				"targetAudience": "developers",
				"budget":         5000,
				"duration":       "2 weeks",
			}, false, ""),
		},
		err:    fmt.Errorf("timeout"),
		failAt: 2, // strategy step
	}
	service, store := newTestConversationService(gen)

	response := service.ProcessMessage(context.Background(), "user-1", "create my campaign")

	assert.Equal(t, conversation.ResponseError, response.Type)
	session, _ := store.Get("user-1")
	assert.Equal(t, conversation.StateError, session.State)
	assert.Nil(t, session.GetParameter("aiRecommendations"))
}

func TestUnknownIntentAsksForClarification(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"total gibberish, not json"}}
	service, _ := newTestConversationService(gen)

	response := service.ProcessMessage(context.Background(), "user-1", "asdf")

	assert.Equal(t, conversation.ResponseInfo, response.Type)
	assert.Contains(t, response.Message, "describe your request again")
}

func TestConfirmParametersCompletesSession(t *testing.T) {
	gen := &scriptedGenerator{}
	service, store := newTestConversationService(gen)

	session := store.GetOrCreate("user-1")
	session.AddParameter("campaignName", "Launch")
	session.SetState(conversation.StateConfirmingParams)

	response := service.ConfirmParameters(context.Background(), "user-1", map[string]any{
		"campaignName": "Launch",
		"budget":       5000.0,
	})

	assert.Equal(t, conversation.ResponseCompleted, response.Type)
	assert.Equal(t, conversation.StateCompleted, session.State)
	assert.Equal(t, "Launch", session.ConfirmedParameters["campaignName"])
	assert.Equal(t, 5000.0, session.ConfirmedParameters["budget"])

	// Confirmation copies, never clears, the working parameters.
	assert.Equal(t, "Launch", session.Parameters["campaignName"])
}

func TestConfirmParametersWithoutSessionIsRecoverable(t *testing.T) {
	gen := &scriptedGenerator{}
	service, _ := newTestConversationService(gen)

	response := service.ConfirmParameters(context.Background(), "ghost", map[string]any{"a": 1})

	assert.Equal(t, conversation.ResponseError, response.Type)
	assert.Contains(t, response.Message, "No active conversation session")
}

func TestEndSessionRemovesStatus(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		intentJSON(t, "CREATE_CAMPAIGN", nil, true, "name?"),
	}}
	service, _ := newTestConversationService(gen)

	service.ProcessMessage(context.Background(), "user-1", "hi")
	_, exists := service.GetSessionStatus("user-1")
	require.True(t, exists)

	service.EndSession("user-1")
	_, exists = service.GetSessionStatus("user-1")
	assert.False(t, exists)

	// Ending an absent session is a no-op.
	service.EndSession("user-1")
}

func TestCompletedSessionIsGated(t *testing.T) {
	gen := &scriptedGenerator{}
	service, store := newTestConversationService(gen)

	session := store.GetOrCreate("user-1")
	session.SetState(conversation.StateCompleted)

	response := service.ProcessMessage(context.Background(), "user-1", "one more thing")

	assert.Equal(t, conversation.ResponseInfo, response.Type)
	assert.Equal(t, "END_SESSION", response.Action)
	assert.Equal(t, conversation.StateCompleted, session.State)
}

func TestCoerceBudget(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{5000.0, 5000, true},
		{5000, 5000, true},
		{"5000", 5000, true},
		{"$200,000", 200000, true},
		{"$200k", 200000, true},
		{"1.5m", 1500000, true},
		{"a lot", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := coerceBudget(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %v", tc.in)
		}
	}
}
