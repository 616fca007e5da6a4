package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/campaignforge/campaignforge-go/internal/domain/entities/campaign"
	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/caching/stores"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/persistence/campaigns"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCampaignService(t *testing.T) (*CampaignService, *stores.SessionsStore) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE campaigns (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		changed_at TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)

	store := stores.NewSessionsStore(nil)
	return NewCampaignService(store, campaigns.NewRepository(db, nil), nil), store
}

func confirmedSession(store *stores.SessionsStore, userID string) *conversation.Context {
	session := store.GetOrCreate(userID)
	session.SetState(conversation.StateCreatingCampaign)
	session.AddConfirmedParameter("campaignName", "Spring Sale")
	session.AddConfirmedParameter("targetAudience", "families")
	session.AddConfirmedParameter("budget", 200000.0)
	session.AddConfirmedParameter("duration", "30 days")
	session.AddParameter("aiRecommendations", map[string]any{
		"segment":         map[string]any{"ageGroup": "25-35 years"},
		"strategy":        map[string]any{"frequency": 3},
		"emailTemplate":   map[string]any{"subject": "Save big this spring"},
		"condition":       map[string]any{"conditionType": "user_segment"},
		"customerJourney": map[string]any{"duration": "3-6 months"},
	})
	return session
}

func TestAssembleFromSessionBuildsLinearFlow(t *testing.T) {
	service, store := newTestCampaignService(t)
	confirmedSession(store, "user-1")

	c, err := service.AssembleFromSession(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Spring Sale", c.Name)
	assert.Equal(t, "families", c.TargetAudience)
	assert.Equal(t, 200000.0, c.Budget)
	assert.Equal(t, campaign.StatusReady, c.Status)

	// START + five recommendation nodes + END.
	require.Len(t, c.Nodes, 7)
	assert.Equal(t, campaign.NodeStart, c.Nodes[0].Type)
	assert.Equal(t, campaign.NodeSegment, c.Nodes[1].Type)
	assert.Equal(t, campaign.NodeStrategy, c.Nodes[2].Type)
	assert.Equal(t, campaign.NodeEmailTemplate, c.Nodes[3].Type)
	assert.Equal(t, campaign.NodeCondition, c.Nodes[4].Type)
	assert.Equal(t, campaign.NodeCustomerJourney, c.Nodes[5].Type)
	assert.Equal(t, campaign.NodeEnd, c.Nodes[6].Type)

	for _, node := range c.Nodes {
		assert.Equal(t, campaign.NodeStatusReady, node.Status)
	}
	assert.Equal(t, "Save big this spring", c.Nodes[3].Data["subject"])

	require.Len(t, c.Connections, 6)
	for i, conn := range c.Connections {
		assert.Equal(t, c.Nodes[i].ID, conn.Source)
		assert.Equal(t, c.Nodes[i+1].ID, conn.Target)
		assert.Equal(t, "default", conn.Type)
	}
}

func TestAssembleSkipsMissingRecommendationKinds(t *testing.T) {
	service, store := newTestCampaignService(t)
	session := confirmedSession(store, "user-1")
	session.AddParameter("aiRecommendations", map[string]any{
		"segment": map[string]any{"ageGroup": "25-35 years"},
	})

	c, err := service.AssembleFromSession(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, c.Nodes, 3)
	assert.Equal(t, campaign.NodeStart, c.Nodes[0].Type)
	assert.Equal(t, campaign.NodeSegment, c.Nodes[1].Type)
	assert.Equal(t, campaign.NodeEnd, c.Nodes[2].Type)
}

func TestAssembleRequiresConfirmedSession(t *testing.T) {
	service, store := newTestCampaignService(t)

	_, err := service.AssembleFromSession(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active conversation session")

	session := store.GetOrCreate("user-1")
	session.SetState(conversation.StateGatheringInfo)

	_, err = service.AssembleFromSession(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready for campaign creation")
}

func TestAssembledCampaignRoundTripsThroughStore(t *testing.T) {
	service, store := newTestCampaignService(t)
	confirmedSession(store, "user-1")

	created, err := service.AssembleFromSession(context.Background(), "user-1")
	require.NoError(t, err)

	loaded, err := service.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, created.Name, loaded.Name)
	assert.Len(t, loaded.Nodes, len(created.Nodes))

	list, err := service.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestGetByIDMissingCampaign(t *testing.T) {
	service, _ := newTestCampaignService(t)

	_, err := service.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, campaigns.ErrNotFound)
}
