package handlers

import (
	"net/http"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/database"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// HealthHandlers reports service liveness and operational statistics.
type HealthHandlers struct {
	conversations *services.ConversationService
	db            *database.Database
	tracker       *performance.Tracker
}

// NewHealthHandlers creates health handlers with dependencies.
func NewHealthHandlers(conversations *services.ConversationService, db *database.Database, tracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{conversations: conversations, db: db, tracker: tracker}
}

// GetHealth handles GET /api/v1/health.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	stats := h.tracker.GetStats()
	dbHealth := h.db.Health()

	status := "ok"
	httpStatus := http.StatusOK
	if healthy, ok := dbHealth["healthy"].(bool); ok && !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":         status,
		"activeSessions": h.conversations.SessionCount(),
		"database":       dbHealth,
		"operations": gin.H{
			"uptime":      stats.Uptime.String(),
			"total":       stats.TotalOperations,
			"failed":      stats.FailedCount,
			"avgDuration": stats.AvgDuration.String(),
			"maxDuration": stats.MaxDuration.String(),
		},
	})
}
