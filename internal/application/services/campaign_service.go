package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/campaign"
	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/interfaces"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/persistence/campaigns"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/security"
)

// nodeKinds is the assembly order of recommendation-backed nodes between
// START and END.
var nodeKinds = []struct {
	key      string
	nodeType campaign.NodeType
	name     string
	idSuffix string
}{
	{"segment", campaign.NodeSegment, "Target Segment", "_segment"},
	{"strategy", campaign.NodeStrategy, "Delivery Strategy", "_strategy"},
	{"emailTemplate", campaign.NodeEmailTemplate, "Email Template", "_email"},
	{"condition", campaign.NodeCondition, "Condition Judgment", "_condition"},
	{"customerJourney", campaign.NodeCustomerJourney, "Customer Journey", "_journey"},
}

// CampaignService assembles and persists campaign definitions from
// completed dialogue sessions.
type CampaignService struct {
	sessions   interfaces.SessionStore
	repository *campaigns.Repository
	logger     *logging.ChanneledLogger
}

// NewCampaignService creates the campaign assembly service.
func NewCampaignService(sessions interfaces.SessionStore, repository *campaigns.Repository, logger *logging.ChanneledLogger) *CampaignService {
	return &CampaignService{sessions: sessions, repository: repository, logger: logger}
}

// AssembleFromSession builds a campaign from a user's confirmed parameters
// and stored node recommendations, persists it, and returns it. The
// session must have passed through parameter confirmation.
func (s *CampaignService) AssembleFromSession(ctx context.Context, userID string) (*campaign.Campaign, error) {
	session, exists := s.sessions.Get(userID)
	if !exists {
		return nil, fmt.Errorf("no active conversation session found for user %s", userID)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()

	if session.State != conversation.StateCreatingCampaign && session.State != conversation.StateCompleted {
		return nil, fmt.Errorf("session for user %s is not ready for campaign creation (state %s)", userID, session.State)
	}

	confirmed := session.ConfirmedParameters
	recommendations, _ := session.GetParameter("aiRecommendations").(map[string]any)
	if recommendations == nil {
		recommendations = make(map[string]any)
	}

	c := s.assemble(userID, confirmed, recommendations)

	if err := s.repository.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("campaign assembly succeeded but persistence failed: %w", err)
	}

	if s.logger != nil {
		s.logger.WithUser(logging.ChannelCampaign, userID).Info("Campaign assembled",
			"campaignId", c.ID, "nodes", len(c.Nodes), "status", string(c.Status))
	}
	return c, nil
}

func (s *CampaignService) assemble(userID string, confirmed, recommendations map[string]any) *campaign.Campaign {
	now := time.Now().UTC()
	campaignID := security.GenerateULID()

	budget, _ := coerceBudget(paramOrEmpty(confirmed, "budget"))

	c := &campaign.Campaign{
		ID:             campaignID,
		UserID:         userID,
		Name:           asString(paramOrEmpty(confirmed, "campaignName")),
		Type:           asString(paramOrEmpty(confirmed, "campaignType")),
		TargetAudience: asString(paramOrEmpty(confirmed, "targetAudience")),
		Budget:         budget,
		Duration:       asString(paramOrEmpty(confirmed, "duration")),
		Status:         campaign.StatusDraft,
		CreatedAt:      now,
		ChangedAt:      now,
	}

	c.Nodes = append(c.Nodes, campaign.Node{
		ID:        campaignID + "_start",
		Type:      campaign.NodeStart,
		Name:      "Start",
		Status:    campaign.NodeStatusReady,
		CreatedAt: now,
	})

	for _, kind := range nodeKinds {
		raw, ok := recommendations[kind.key]
		if !ok {
			continue
		}
		data, _ := raw.(map[string]any)
		c.Nodes = append(c.Nodes, campaign.Node{
			ID:        campaignID + kind.idSuffix,
			Type:      kind.nodeType,
			Name:      kind.name,
			Status:    campaign.NodeStatusReady,
			Data:      data,
			CreatedAt: now,
		})
	}

	c.Nodes = append(c.Nodes, campaign.Node{
		ID:        campaignID + "_end",
		Type:      campaign.NodeEnd,
		Name:      "End",
		Status:    campaign.NodeStatusReady,
		CreatedAt: now,
	})

	// Linear default flow; branching paths from the condition node are a
	// downstream editing concern.
	for i := 0; i < len(c.Nodes)-1; i++ {
		c.Connections = append(c.Connections, campaign.Connection{
			ID:     fmt.Sprintf("conn_%d", i),
			Source: c.Nodes[i].ID,
			Target: c.Nodes[i+1].ID,
			Type:   "default",
		})
	}

	c.Status = campaign.StatusReady
	c.ChangedAt = time.Now().UTC()
	return c
}

// GetByID loads a persisted campaign.
func (s *CampaignService) GetByID(ctx context.Context, id string) (*campaign.Campaign, error) {
	return s.repository.GetByID(ctx, id)
}

// ListByUser returns a user's persisted campaigns, newest first.
func (s *CampaignService) ListByUser(ctx context.Context, userID string) ([]*campaign.Campaign, error) {
	return s.repository.ListByUser(ctx, userID)
}

func paramOrEmpty(params map[string]any, key string) any {
	if params == nil {
		return nil
	}
	return params[key]
}
