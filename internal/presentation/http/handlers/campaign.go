package handlers

import (
	"errors"
	"net/http"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/email"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/persistence/campaigns"
	"github.com/gin-gonic/gin"
)

// CampaignHandlers exposes campaign assembly, retrieval, and email preview.
type CampaignHandlers struct {
	campaignService *services.CampaignService
	emailService    email.Service
	logger          *logging.ChanneledLogger
	tracker         *performance.Tracker
}

// NewCampaignHandlers creates campaign handlers with dependencies.
func NewCampaignHandlers(campaignService *services.CampaignService, emailService email.Service, logger *logging.ChanneledLogger, tracker *performance.Tracker) *CampaignHandlers {
	return &CampaignHandlers{
		campaignService: campaignService,
		emailService:    emailService,
		logger:          logger,
		tracker:         tracker,
	}
}

type createCampaignRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type emailPreviewRequest struct {
	To string `json:"to" binding:"required,email"`
}

// PostCampaign handles POST /api/v1/campaigns, assembling a campaign from
// a confirmed dialogue session.
func (h *CampaignHandlers) PostCampaign(c *gin.Context) {
	marker := h.tracker.StartOperation("http_campaign_create", c.ClientIP())
	defer marker.Complete()

	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	campaign, err := h.campaignService.AssembleFromSession(c.Request.Context(), req.UserID)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, campaign)
}

// GetCampaign handles GET /api/v1/campaigns/:id.
func (h *CampaignHandlers) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, campaigns.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load campaign"})
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// ListCampaigns handles GET /api/v1/campaigns?userId=...
func (h *CampaignHandlers) ListCampaigns(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	list, err := h.campaignService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list campaigns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": list})
}

// PostEmailPreview handles POST /api/v1/campaigns/:id/email-preview,
// sending the campaign's recommended email template to a reviewer address.
func (h *CampaignHandlers) PostEmailPreview(c *gin.Context) {
	marker := h.tracker.StartOperation("http_email_preview", c.ClientIP())
	defer marker.Complete()

	if h.emailService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email sending is not configured"})
		return
	}

	var req emailPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid to address is required"})
		return
	}

	campaign, err := h.campaignService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, campaigns.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
			return
		}
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load campaign"})
		return
	}

	subject, body, cta := "Campaign preview", "", ""
	for _, node := range campaign.Nodes {
		if string(node.Type) != "EMAIL_TEMPLATE" || node.Data == nil {
			continue
		}
		if v, ok := node.Data["subject"].(string); ok && v != "" {
			subject = v
		}
		if v, ok := node.Data["body"].(string); ok {
			body = v
		}
		if v, ok := node.Data["cta"].(string); ok {
			cta = v
		}
		break
	}

	if err := h.emailService.SendTemplatePreview(req.To, campaign.Name, subject, body, cta); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send preview email"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"message": "preview sent", "to": req.To})
}
