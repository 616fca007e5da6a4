// Package handlers contains the HTTP handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// ConversationHandlers exposes the dialogue operations over HTTP.
type ConversationHandlers struct {
	conversations *services.ConversationService
	logger        *logging.ChanneledLogger
	tracker       *performance.Tracker
}

// NewConversationHandlers creates conversation handlers with dependencies.
func NewConversationHandlers(conversations *services.ConversationService, logger *logging.ChanneledLogger, tracker *performance.Tracker) *ConversationHandlers {
	return &ConversationHandlers{conversations: conversations, logger: logger, tracker: tracker}
}

type messageRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type confirmRequest struct {
	UserID          string         `json:"userId" binding:"required"`
	ConfirmedParams map[string]any `json:"confirmedParams" binding:"required"`
}

// PostMessage handles POST /api/v1/dialogue/message.
func (h *ConversationHandlers) PostMessage(c *gin.Context) {
	marker := h.tracker.StartOperation("http_dialogue_message", c.ClientIP())
	defer marker.Complete()

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and message are required"})
		return
	}

	response := h.conversations.ProcessMessage(c.Request.Context(), req.UserID, req.Message)
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, response)
}

// PostConfirm handles POST /api/v1/dialogue/confirm.
func (h *ConversationHandlers) PostConfirm(c *gin.Context) {
	marker := h.tracker.StartOperation("http_dialogue_confirm", c.ClientIP())
	defer marker.Complete()

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and confirmedParams are required"})
		return
	}

	response := h.conversations.ConfirmParameters(c.Request.Context(), req.UserID, req.ConfirmedParams)
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, response)
}

// GetStatus handles GET /api/v1/dialogue/status/:userId.
func (h *ConversationHandlers) GetStatus(c *gin.Context) {
	userID := c.Param("userId")

	session, exists := h.conversations.GetSessionStatus(userID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active conversation session found"})
		return
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	c.JSON(http.StatusOK, session)
}

// DeleteSession handles DELETE /api/v1/dialogue/session/:userId.
func (h *ConversationHandlers) DeleteSession(c *gin.Context) {
	h.conversations.EndSession(c.Param("userId"))
	c.Status(http.StatusNoContent)
}
