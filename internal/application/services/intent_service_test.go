package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisValidJSON(t *testing.T) {
	raw := `{"intent":"CREATE_CAMPAIGN","confidence":0.92,"extractedParams":{"campaignName":"Spring Sale","budget":5000},"requiresMoreInfo":true,"nextQuestion":"Who is the target audience?"}`

	analysis := ParseAnalysis(raw)

	assert.Equal(t, conversation.IntentCreateCampaign, analysis.Intent)
	assert.Equal(t, 0.92, analysis.Confidence)
	assert.Equal(t, "Spring Sale", analysis.ExtractedParams["campaignName"])
	assert.True(t, analysis.RequiresMoreInfo)
	assert.Equal(t, "Who is the target audience?", analysis.NextQuestion)
}

func TestParseAnalysisFencedJSON(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"intent\":\"GET_ADVICE\",\"confidence\":0.8,\"extractedParams\":{},\"requiresMoreInfo\":false,\"nextQuestion\":\"\"}\n```"

	analysis := ParseAnalysis(raw)

	assert.Equal(t, conversation.IntentGetAdvice, analysis.Intent)
	assert.False(t, analysis.RequiresMoreInfo)
}

func TestParseAnalysisGarbageFallsBack(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{broken json", "```\nnothing here\n```"} {
		analysis := ParseAnalysis(raw)

		assert.Equal(t, conversation.IntentUnknown, analysis.Intent, "input: %q", raw)
		assert.Equal(t, 0.0, analysis.Confidence)
		assert.Empty(t, analysis.ExtractedParams)
		assert.True(t, analysis.RequiresMoreInfo)
	}
}

func TestParseAnalysisUnknownIntentLabel(t *testing.T) {
	raw := `{"intent":"LAUNCH_ROCKET","confidence":0.99,"extractedParams":{},"requiresMoreInfo":false}`

	analysis := ParseAnalysis(raw)

	assert.Equal(t, conversation.IntentUnknown, analysis.Intent)
	assert.Equal(t, 0.99, analysis.Confidence)
}

func TestAnalyzePropagatesGeneratorFailure(t *testing.T) {
	gen := &scriptedGenerator{err: fmt.Errorf("model unavailable")}
	service := NewIntentService(gen, nil)
	session := conversation.NewContext("user-1")

	_, err := service.Analyze(context.Background(), session, "create a campaign")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "intent analysis failed")
}

func TestAnalyzeDegradesUnparsableResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"I would love to help you with that!"}}
	service := NewIntentService(gen, nil)
	session := conversation.NewContext("user-1")

	analysis, err := service.Analyze(context.Background(), session, "create a campaign")

	require.NoError(t, err)
	assert.Equal(t, conversation.IntentUnknown, analysis.Intent)
	assert.True(t, analysis.RequiresMoreInfo)
}
