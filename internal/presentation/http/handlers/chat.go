package handlers

import (
	"net/http"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/ai"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// ChatHandlers exposes the raw generation probe and the one-shot campaign
// advice endpoint.
type ChatHandlers struct {
	generator ai.Generator
	advice    *services.AdviceService
	logger    *logging.ChanneledLogger
	tracker   *performance.Tracker
}

// NewChatHandlers creates chat handlers with dependencies.
func NewChatHandlers(generator ai.Generator, advice *services.AdviceService, logger *logging.ChanneledLogger, tracker *performance.Tracker) *ChatHandlers {
	return &ChatHandlers{generator: generator, advice: advice, logger: logger, tracker: tracker}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type adviceRequest struct {
	CampaignType   string  `json:"campaignType" binding:"required"`
	TargetAudience string  `json:"targetAudience" binding:"required"`
	Budget         float64 `json:"budget" binding:"required"`
	Duration       string  `json:"duration"`
}

// PostChat handles POST /api/v1/chat, a direct connectivity probe against
// the generation capability.
func (h *ChatHandlers) PostChat(c *gin.Context) {
	marker := h.tracker.StartOperation("http_chat", c.ClientIP())
	defer marker.Complete()

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	response, err := h.generator.Generate(c.Request.Context(), req.Message)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"response": response})
}

// PostCampaignAdvice handles POST /api/v1/campaign-advice.
func (h *ChatHandlers) PostCampaignAdvice(c *gin.Context) {
	marker := h.tracker.StartOperation("http_campaign_advice", c.ClientIP())
	defer marker.Complete()

	var req adviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "campaignType, targetAudience and budget are required"})
		return
	}

	advice, err := h.advice.GetCampaignAdvice(c.Request.Context(), req.CampaignType, req.TargetAudience, req.Budget, req.Duration)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, advice)
}
