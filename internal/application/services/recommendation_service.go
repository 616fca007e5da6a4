package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/ai"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
)

// RecommendationService generates per-node configuration recommendations
// for a campaign being assembled. The five node recommendations form a
// dependency chain and are generated strictly in order; a failure at any
// step aborts the whole run.
type RecommendationService struct {
	generator ai.Generator
	logger    *logging.ChanneledLogger
	tracker   *performance.Tracker
}

// NewRecommendationService creates the recommendation generation service.
func NewRecommendationService(generator ai.Generator, logger *logging.ChanneledLogger, tracker *performance.Tracker) *RecommendationService {
	return &RecommendationService{generator: generator, logger: logger, tracker: tracker}
}

// GenerateNodeRecommendations runs the full five-step recommendation
// pipeline. On success the returned map holds one entry per node kind
// (segment, strategy, emailTemplate, condition, customerJourney); on any
// failure no partial results are returned.
func (s *RecommendationService) GenerateNodeRecommendations(ctx context.Context, userID, campaignType, targetAudience string, budget float64) (map[string]any, error) {
	var marker *performance.Marker
	if s.tracker != nil {
		marker = s.tracker.StartOperation("generate_node_recommendations", userID)
		defer marker.Complete()
	}

	segment, err := s.generateSegment(ctx, campaignType, targetAudience, budget)
	if err != nil {
		return nil, s.fail(marker, "segment", err)
	}

	strategy, err := s.generateStrategy(ctx, campaignType, targetAudience, budget, segment)
	if err != nil {
		return nil, s.fail(marker, "strategy", err)
	}

	emailTemplate, err := s.generateEmailTemplate(ctx, campaignType, targetAudience, segment, strategy)
	if err != nil {
		return nil, s.fail(marker, "emailTemplate", err)
	}

	condition, err := s.generateCondition(ctx, campaignType, segment, strategy)
	if err != nil {
		return nil, s.fail(marker, "condition", err)
	}

	journey, err := s.generateCustomerJourney(ctx, campaignType, targetAudience, segment)
	if err != nil {
		return nil, s.fail(marker, "customerJourney", err)
	}

	if marker != nil {
		marker.SetSuccess(true)
	}
	if s.logger != nil {
		s.logger.WithUser(logging.ChannelAI, userID).Info("Node recommendations generated",
			"campaignType", campaignType)
	}

	return map[string]any{
		"segment":         segment,
		"strategy":        strategy,
		"emailTemplate":   emailTemplate,
		"condition":       condition,
		"customerJourney": journey,
	}, nil
}

func (s *RecommendationService) fail(marker *performance.Marker, step string, err error) error {
	if marker != nil {
		marker.SetError(err)
		marker.AddMetadata("failedStep", step)
	}
	return fmt.Errorf("recommendation step %s failed: %w", step, err)
}

func (s *RecommendationService) generateSegment(ctx context.Context, campaignType, targetAudience string, budget float64) (map[string]any, error) {
	prompt := fmt.Sprintf(`Based on the following marketing campaign information, generate detailed configuration recommendations for the target segment node:

Campaign Type: %s
Target Audience: %s
Budget: $%.2f

Please provide recommendations for the following aspects:
1. Age group segmentation suggestions
2. Geographic location targeting suggestions
3. Occupation and interest tags
4. Behavioral characteristic analysis
5. Need insights
6. Custom attribute suggestions

Return recommendations in JSON format with specific configuration parameters and reasoning.`, campaignType, targetAudience, budget)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSegmentRecommendations(raw), nil
}

func (s *RecommendationService) generateStrategy(ctx context.Context, campaignType, targetAudience string, budget float64, segment map[string]any) (map[string]any, error) {
	prompt := fmt.Sprintf(`Based on the following information, generate detailed configuration recommendations for the delivery strategy node:

Campaign Type: %s
Target Audience: %s
Budget: $%.2f
Segment Configuration: %v

Please provide recommendations for the following aspects:
1. Delivery channel selection (Email, SMS, Social Media, etc.)
2. Delivery frequency suggestions
3. Budget allocation strategy
4. Delivery timing optimization
5. Channel-specific settings
6. Optimization goal suggestions

Return recommendations in JSON format with specific configuration parameters and strategy reasoning.`, campaignType, targetAudience, budget, segment)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseStrategyRecommendations(raw), nil
}

func (s *RecommendationService) generateEmailTemplate(ctx context.Context, campaignType, targetAudience string, segment, strategy map[string]any) (map[string]any, error) {
	prompt := fmt.Sprintf(`Based on the following information, generate detailed configuration recommendations for the email template node:

Campaign Type: %s
Target Audience: %s
Segment Configuration: %v
Delivery Strategy: %v

Please provide recommendations for the following aspects:
1. Email subject optimization suggestions
2. Email body content suggestions
3. Call to action (CTA) suggestions
4. Personalization field suggestions
5. Template type selection
6. Sender information suggestions

Return recommendations in JSON format with specific configuration parameters and content suggestions.`, campaignType, targetAudience, segment, strategy)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseEmailTemplateRecommendations(raw), nil
}

func (s *RecommendationService) generateCondition(ctx context.Context, campaignType string, segment, strategy map[string]any) (map[string]any, error) {
	prompt := fmt.Sprintf(`Based on the following information, generate detailed configuration recommendations for the condition judgment node:

Campaign Type: %s
Segment Configuration: %v
Delivery Strategy: %v

Please provide recommendations for the following aspects:
1. Condition type selection suggestions
2. Flow path design suggestions
3. Condition logic suggestions
4. Target node connection suggestions
5. Condition name and description suggestions

Return recommendations in JSON format with specific configuration parameters and logic design.`, campaignType, segment, strategy)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseConditionRecommendations(raw), nil
}

func (s *RecommendationService) generateCustomerJourney(ctx context.Context, campaignType, targetAudience string, segment map[string]any) (map[string]any, error) {
	prompt := fmt.Sprintf(`Based on the following information, generate detailed configuration recommendations for the customer journey node:

Campaign Type: %s
Target Audience: %s
Segment Configuration: %v

Please provide recommendations for the following aspects:
1. Customer journey stage design
2. Touchpoint selection suggestions
3. Journey duration suggestions
4. Journey goal setting
5. Journey map design
6. Conversion path optimization

Return recommendations in JSON format with specific configuration parameters and journey design.`, campaignType, targetAudience, segment)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseCustomerJourneyRecommendations(raw), nil
}

// GenerateCompleteCampaignRecommendations produces a single holistic
// recommendation for standalone advice requests, outside the node pipeline.
func (s *RecommendationService) GenerateCompleteCampaignRecommendations(ctx context.Context, userID, campaignType, targetAudience string, budget float64, duration string) (map[string]any, error) {
	start := time.Now()

	prompt := fmt.Sprintf(`Based on the following information, generate complete marketing campaign recommendations:

Campaign Type: %s
Target Audience: %s
Budget: $%.2f
Campaign Duration: %s

Please provide comprehensive recommendations for the entire marketing campaign, including:
1. Overall campaign strategy suggestions
2. Target segment selection suggestions
3. Delivery strategy suggestions
4. Content creative suggestions
5. Execution plan suggestions
6. Expected results assessment
7. Risk control suggestions

Return complete recommendations in JSON format with configuration parameters and strategy descriptions for all nodes.`, campaignType, targetAudience, budget, duration)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("complete campaign recommendations failed: %w", err)
	}

	if s.logger != nil {
		s.logger.WithUser(logging.ChannelAI, userID).Info("Complete campaign recommendations generated",
			"duration", time.Since(start).String())
	}

	return map[string]any{
		"overallStrategy":         "Comprehensive marketing strategy suggestions",
		"segmentRecommendations":  parseSegmentRecommendations(raw),
		"strategyRecommendations": parseStrategyRecommendations(raw),
		"contentRecommendations":  parseEmailTemplateRecommendations(raw),
		"executionPlan":           "Detailed execution plan",
		"expectedResults":         "Expected results assessment",
		"riskControl":             "Risk control suggestions",
		"reasoning":               raw,
	}, nil
}

// The parse helpers return baseline configurations with the raw model
// response preserved under the reasoning key. Structured extraction of
// the model output is a planned refinement; downstream consumers read
// the reasoning text today.

func parseSegmentRecommendations(raw string) map[string]any {
	return map[string]any{
		"ageGroup":   "25-35 years",
		"location":   "Tier 1 cities",
		"occupation": "Young professionals",
		"needs":      "Career development, quality of life improvement",
		"interests":  "Technology, fashion, travel",
		"behavior":   "Online shopping, social media active",
		"reasoning":  raw,
	}
}

func parseStrategyRecommendations(raw string) map[string]any {
	return map[string]any{
		"channels":         []string{"email", "social", "sms"},
		"frequency":        3,
		"budgetAllocation": map[string]any{"email": 40, "social": 40, "sms": 20},
		"timing":           "Weekdays 9-11 AM, Weekends 2-4 PM",
		"optimizationGoal": "Conversion rate optimization",
		"reasoning":        raw,
	}
}

func parseEmailTemplateRecommendations(raw string) map[string]any {
	return map[string]any{
		"subject":         "Personalized subject suggestions",
		"body":            "Content suggestions based on audience characteristics",
		"cta":             "Clear call to action",
		"personalization": []string{"Name", "Company", "Position"},
		"reasoning":       raw,
	}
}

func parseConditionRecommendations(raw string) map[string]any {
	return map[string]any{
		"conditionType": "user_segment",
		"flowPaths": []map[string]any{
			{"name": "Yes", "condition": "true", "targetType": "strategy"},
			{"name": "No", "condition": "false", "targetType": "emailTemplate"},
		},
		"reasoning": raw,
	}
}

func parseCustomerJourneyRecommendations(raw string) map[string]any {
	return map[string]any{
		"journeyStages": []string{"Awareness", "Consideration", "Decision", "Purchase", "Loyalty"},
		"touchpoints":   []string{"Social Media", "Email", "Website", "Customer Service"},
		"duration":      "3-6 months",
		"goal":          "Improve brand awareness and conversion rate",
		"reasoning":     raw,
	}
}
