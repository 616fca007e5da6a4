package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/ai"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/interfaces"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
)

// requiredParameters must all be present before the dialogue leaves the
// gathering phase. Optional parameters are reported as missing but never
// block progression.
var requiredParameters = []string{"campaignName", "targetAudience", "budget", "duration"}

var parameterLabels = map[string]string{
	"campaignName":   "Campaign name",
	"targetAudience": "Target audience",
	"budget":         "Budget",
	"duration":       "Campaign duration",
	"channels":       "Marketing channels",
	"objectives":     "Campaign objectives",
}

// ConversationService is the dialogue state machine. It owns session
// lookup, intent dispatch, state transitions, and response construction.
type ConversationService struct {
	sessions        interfaces.SessionStore
	intents         *IntentService
	recommendations *RecommendationService
	generator       ai.Generator
	logger          *logging.ChanneledLogger
	tracker         *performance.Tracker
}

// NewConversationService creates the dialogue state machine service.
func NewConversationService(
	sessions interfaces.SessionStore,
	intents *IntentService,
	recommendations *RecommendationService,
	generator ai.Generator,
	logger *logging.ChanneledLogger,
	tracker *performance.Tracker,
) *ConversationService {
	return &ConversationService{
		sessions:        sessions,
		intents:         intents,
		recommendations: recommendations,
		generator:       generator,
		logger:          logger,
		tracker:         tracker,
	}
}

// ProcessMessage handles one inbound user message. Internal failures never
// propagate as errors; they surface as an ERROR response with the session
// moved to the ERROR state.
func (s *ConversationService) ProcessMessage(ctx context.Context, userID, message string) *conversation.Response {
	var marker *performance.Marker
	if s.tracker != nil {
		marker = s.tracker.StartOperation("process_message", userID)
		defer marker.Complete()
	}

	session := s.sessions.GetOrCreate(userID)

	session.Mu.Lock()
	defer session.Mu.Unlock()

	session.IncrementTurnCount()

	// COMPLETED and ERROR are terminal; only explicit termination releases
	// the session.
	if session.State == conversation.StateCompleted {
		if marker != nil {
			marker.SetSuccess(true)
		}
		return conversation.Info("This conversation is already complete. End the session to start a new campaign.").
			WithAction("END_SESSION")
	}
	if session.State == conversation.StateError {
		if marker != nil {
			marker.SetSuccess(true)
		}
		return conversation.Error("This conversation ended with an error. End the session to start over.").
			WithAction("END_SESSION")
	}

	analysis, err := s.intents.Analyze(ctx, session, message)
	if err != nil {
		return s.toErrorState(session, marker, fmt.Errorf("sorry, something went wrong while processing your message: %w", err))
	}
	session.SetIntent(analysis.Intent)

	response := s.handleByIntent(ctx, session, analysis)

	s.updateState(session, response)

	if marker != nil {
		marker.AddMetadata("intent", string(analysis.Intent))
		marker.AddMetadata("responseType", string(response.Type))
		marker.SetSuccess(response.Type != conversation.ResponseError)
	}
	if s.logger != nil {
		s.logger.WithUser(logging.ChannelDialogue, userID).Info("Message processed",
			"turn", session.TurnCount,
			"intent", string(session.Intent),
			"state", string(session.State),
			"responseType", string(response.Type))
	}
	return response
}

func (s *ConversationService) handleByIntent(ctx context.Context, session *conversation.Context, analysis *conversation.Analysis) *conversation.Response {
	switch analysis.Intent {
	case conversation.IntentCreateCampaign:
		return s.handleCreateCampaign(ctx, session, analysis)
	case conversation.IntentModifyCampaign:
		return conversation.Info("Campaign modification is not available yet.")
	case conversation.IntentGetAdvice:
		return s.handleGetAdvice(ctx, session, analysis)
	case conversation.IntentAnalyzePerformance:
		return conversation.Info("Performance analysis is not available yet.")
	case conversation.IntentOptimizeBudget:
		return conversation.Info("Budget optimization is not available yet.")
	default:
		return conversation.Info("Sorry, I did not understand what you need. Please describe your request again.")
	}
}

// handleCreateCampaign merges extracted parameters into the session, then
// either keeps gathering information or moves into recommendation
// generation once all required parameters are present.
func (s *ConversationService) handleCreateCampaign(ctx context.Context, session *conversation.Context, analysis *conversation.Analysis) *conversation.Response {
	for key, value := range analysis.ExtractedParams {
		if key == "budget" {
			if budget, ok := coerceBudget(value); ok {
				session.AddParameter(key, budget)
				continue
			}
		}
		session.AddParameter(key, value)
	}

	if analysis.RequiresMoreInfo && !s.hasRequiredParameters(session) {
		session.SetState(conversation.StateGatheringInfo)
		session.SetCurrentQuestion(analysis.NextQuestion)
		return conversation.GatheringInfo(analysis.NextQuestion, s.missingParameters(session), session.Parameters)
	}

	if s.hasRequiredParameters(session) {
		session.SetState(conversation.StateConfirmingParams)
		return s.generateNodeRecommendations(ctx, session)
	}

	nextQuestion := s.generateNextQuestion(ctx, session)
	session.SetCurrentQuestion(nextQuestion)
	return conversation.GatheringInfo(nextQuestion, s.missingParameters(session), session.Parameters)
}

// generateNodeRecommendations runs the five-step pipeline and stores the
// aggregated result on the session under the aiRecommendations parameter.
func (s *ConversationService) generateNodeRecommendations(ctx context.Context, session *conversation.Context) *conversation.Response {
	campaignType := asString(session.GetParameter("campaignType"))
	if campaignType == "" {
		campaignType = asString(session.GetParameter("campaignName"))
	}
	targetAudience := asString(session.GetParameter("targetAudience"))
	budget, _ := coerceBudget(session.GetParameter("budget"))

	recommendations, err := s.recommendations.GenerateNodeRecommendations(ctx, session.UserID, campaignType, targetAudience, budget)
	if err != nil {
		return conversation.Error(fmt.Sprintf("Failed to generate node recommendations: %v", err))
	}

	session.AddParameter("aiRecommendations", recommendations)

	return conversation.NodeRecommendations(
		"Detailed node configuration recommendations have been generated for your campaign. Please review and confirm each one:",
		recommendations,
		s.generateCampaignSummary(ctx, session),
	)
}

// handleGetAdvice answers advice requests without entering the slot-filling
// flow; whatever parameters the message carried still land on the session.
func (s *ConversationService) handleGetAdvice(ctx context.Context, session *conversation.Context, analysis *conversation.Analysis) *conversation.Response {
	for key, value := range analysis.ExtractedParams {
		session.AddParameter(key, value)
	}

	campaignType := asString(session.GetParameter("campaignType"))
	targetAudience := asString(session.GetParameter("targetAudience"))
	budget, _ := coerceBudget(session.GetParameter("budget"))
	duration := asString(session.GetParameter("duration"))

	advice, err := s.recommendations.GenerateCompleteCampaignRecommendations(ctx, session.UserID, campaignType, targetAudience, budget, duration)
	if err != nil {
		return conversation.Error(fmt.Sprintf("Failed to generate campaign advice: %v", err))
	}

	response := conversation.Info("Here are complete recommendations for your campaign.")
	response.Parameters = advice
	return response
}

// generateNextQuestion asks the generation capability for a natural
// follow-up question covering the still-missing parameters. A generation
// failure falls back to the stock question for the first missing parameter.
func (s *ConversationService) generateNextQuestion(ctx context.Context, session *conversation.Context) string {
	missing := s.missingParameters(session)

	prompt := fmt.Sprintf(`Based on the campaign parameters collected so far, generate the next question to collect the missing information.

Collected parameters: %v
Missing parameters: %v

Generate one natural, friendly question asking for the missing information. Respond with the question only.`,
		session.Parameters, missing)

	question, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(question) == "" {
		for _, key := range requiredParameters {
			if label, ok := missing[key]; ok {
				return fmt.Sprintf("Could you tell me the %s for your campaign?", strings.ToLower(label))
			}
		}
		return "Could you tell me more about the campaign you have in mind?"
	}
	return strings.TrimSpace(question)
}

// generateCampaignSummary produces a short human-readable summary of the
// collected parameters. Best effort: a generation failure degrades to a
// plain parameter listing.
func (s *ConversationService) generateCampaignSummary(ctx context.Context, session *conversation.Context) string {
	prompt := fmt.Sprintf(`Generate a campaign summary from the following parameters:
%v

Produce a concise, professional summary highlighting the key information.`, session.Parameters)

	summary, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(summary) == "" {
		return fmt.Sprintf("Campaign %s targeting %s",
			asString(session.GetParameter("campaignName")),
			asString(session.GetParameter("targetAudience")))
	}
	return strings.TrimSpace(summary)
}

// ConfirmParameters records the user's explicit confirmation and moves the
// session through CREATING_CAMPAIGN to a COMPLETED response. Campaign
// assembly consumes the confirmed parameters downstream.
func (s *ConversationService) ConfirmParameters(ctx context.Context, userID string, confirmedParams map[string]any) *conversation.Response {
	session, exists := s.sessions.Get(userID)
	if !exists {
		return conversation.Error("No active conversation session found")
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	for key, value := range confirmedParams {
		session.AddConfirmedParameter(key, value)
	}

	session.SetState(conversation.StateCreatingCampaign)

	response := conversation.Completed(
		"Campaign parameters confirmed! Creating your campaign...",
		session.ConfirmedParameters,
		"Campaign created successfully",
	)
	s.updateState(session, response)

	if s.logger != nil {
		s.logger.WithUser(logging.ChannelDialogue, userID).Info("Parameters confirmed",
			"confirmedCount", len(session.ConfirmedParameters),
			"state", string(session.State))
	}
	return response
}

// GetSessionStatus returns the session for a user, or absence.
func (s *ConversationService) GetSessionStatus(userID string) (*conversation.Context, bool) {
	return s.sessions.Get(userID)
}

// EndSession removes the session regardless of its state. Terminating a
// non-existent session is a no-op.
func (s *ConversationService) EndSession(userID string) {
	s.sessions.Delete(userID)
	if s.logger != nil {
		s.logger.WithUser(logging.ChannelDialogue, userID).Info("Session ended")
	}
}

// SessionCount reports the number of active sessions for health output.
func (s *ConversationService) SessionCount() int {
	return s.sessions.Count()
}

func (s *ConversationService) toErrorState(session *conversation.Context, marker *performance.Marker, err error) *conversation.Response {
	session.SetState(conversation.StateError)
	if marker != nil {
		marker.SetError(err)
	}
	if s.logger != nil {
		s.logger.WithUser(logging.ChannelDialogue, session.UserID).Error("Dialogue failure",
			"error", err.Error())
	}
	return conversation.Error(err.Error())
}

func (s *ConversationService) updateState(session *conversation.Context, response *conversation.Response) {
	switch response.Type {
	case conversation.ResponseGatheringInfo:
		session.SetState(conversation.StateGatheringInfo)
	case conversation.ResponseConfirmingParams, conversation.ResponseNodeRecommendations:
		session.SetState(conversation.StateConfirmingParams)
	case conversation.ResponseCompleted:
		session.SetState(conversation.StateCompleted)
	case conversation.ResponseError:
		session.SetState(conversation.StateError)
	}
}

func (s *ConversationService) hasRequiredParameters(session *conversation.Context) bool {
	for _, key := range requiredParameters {
		if !session.HasParameter(key) {
			return false
		}
	}
	return true
}

func (s *ConversationService) missingParameters(session *conversation.Context) map[string]string {
	missing := make(map[string]string)
	for key, label := range parameterLabels {
		if !session.HasParameter(key) {
			missing[key] = label
		}
	}
	return missing
}

// coerceBudget normalizes budget values arriving as JSON numbers, integers,
// or formatted strings ("$200,000") into a float64.
func coerceBudget(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
		cleaned = strings.TrimSpace(cleaned)
		multiplier := 1.0
		lower := strings.ToLower(cleaned)
		if strings.HasSuffix(lower, "k") {
			multiplier = 1000
			cleaned = cleaned[:len(cleaned)-1]
		} else if strings.HasSuffix(lower, "m") {
			multiplier = 1000000
			cleaned = cleaned[:len(cleaned)-1]
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return parsed * multiplier, true
	default:
		return 0, false
	}
}

func asString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
