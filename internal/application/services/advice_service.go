package services

import (
	"context"
	"fmt"
	"strings"
)

// AdviceService answers one-shot, sessionless campaign advice requests.
type AdviceService struct {
	recommendations *RecommendationService
}

// NewAdviceService creates the standalone advice service.
func NewAdviceService(recommendations *RecommendationService) *AdviceService {
	return &AdviceService{recommendations: recommendations}
}

// GetCampaignAdvice validates the request and returns a complete campaign
// recommendation set.
func (s *AdviceService) GetCampaignAdvice(ctx context.Context, campaignType, targetAudience string, budget float64, duration string) (map[string]any, error) {
	if strings.TrimSpace(campaignType) == "" {
		return nil, fmt.Errorf("campaignType is required")
	}
	if strings.TrimSpace(targetAudience) == "" {
		return nil, fmt.Errorf("targetAudience is required")
	}
	if budget <= 0 {
		return nil, fmt.Errorf("budget must be positive")
	}

	return s.recommendations.GenerateCompleteCampaignRecommendations(ctx, "advice", campaignType, targetAudience, budget, duration)
}
