// Package services implements the dialogue, recommendation, and campaign
// application services.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/ai"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
)

// IntentService classifies inbound user messages and extracts campaign
// parameters from them.
type IntentService struct {
	generator ai.Generator
	logger    *logging.ChanneledLogger
}

// NewIntentService creates the intent classification service.
func NewIntentService(generator ai.Generator, logger *logging.ChanneledLogger) *IntentService {
	return &IntentService{generator: generator, logger: logger}
}

const intentPromptTemplate = `You are an intent classifier for a marketing campaign assistant.
Analyze the user message below and respond with ONLY a JSON object, no prose.

User message: %q

Conversation turn: %d
Current session state: %s
Parameters collected so far: %s

Respond with JSON of this exact shape:
{
  "intent": "CREATE_CAMPAIGN | MODIFY_CAMPAIGN | GET_ADVICE | ANALYZE_PERFORMANCE | OPTIMIZE_BUDGET | UNKNOWN",
  "confidence": 0.0,
  "extractedParams": {"campaignName": "...", "targetAudience": "...", "budget": 0, "duration": "...", "channels": "...", "objectives": "..."},
  "requiresMoreInfo": true,
  "nextQuestion": "..."
}
Only include keys in extractedParams that the message actually provides.`

// Analyze classifies one message in the context of a session. A generation
// failure is returned to the caller; an unparseable model response degrades
// to an UNKNOWN analysis that asks for more information.
func (s *IntentService) Analyze(ctx context.Context, session *conversation.Context, message string) (*conversation.Analysis, error) {
	params, err := json.Marshal(session.Parameters)
	if err != nil {
		params = []byte("{}")
	}

	prompt := fmt.Sprintf(intentPromptTemplate, message, session.TurnCount, session.State, string(params))

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("intent analysis failed: %w", err)
	}

	analysis := ParseAnalysis(raw)
	if s.logger != nil {
		s.logger.WithUser(logging.ChannelAI, session.UserID).Debug("Intent analyzed",
			"intent", string(analysis.Intent),
			"confidence", analysis.Confidence,
			"requiresMoreInfo", analysis.RequiresMoreInfo)
	}
	return analysis, nil
}

// ParseAnalysis decodes a model response into an Analysis. Responses that
// do not contain valid JSON degrade to an UNKNOWN analysis with zero
// confidence that requests more information.
func ParseAnalysis(raw string) *conversation.Analysis {
	fallback := &conversation.Analysis{
		Intent:           conversation.IntentUnknown,
		Confidence:       0.0,
		ExtractedParams:  make(map[string]any),
		RequiresMoreInfo: true,
	}

	body := extractJSONObject(raw)
	if body == "" {
		return fallback
	}

	var decoded struct {
		Intent           string         `json:"intent"`
		Confidence       float64        `json:"confidence"`
		ExtractedParams  map[string]any `json:"extractedParams"`
		RequiresMoreInfo bool           `json:"requiresMoreInfo"`
		NextQuestion     string         `json:"nextQuestion"`
	}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return fallback
	}

	extracted := decoded.ExtractedParams
	if extracted == nil {
		extracted = make(map[string]any)
	}

	return &conversation.Analysis{
		Intent:           conversation.ParseIntent(decoded.Intent),
		Confidence:       decoded.Confidence,
		ExtractedParams:  extracted,
		RequiresMoreInfo: decoded.RequiresMoreInfo,
		NextQuestion:     decoded.NextQuestion,
	}
}

// extractJSONObject strips markdown code fences and surrounding prose,
// returning the first top-level JSON object in the text.
func extractJSONObject(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
