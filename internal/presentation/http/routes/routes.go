// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/campaignforge/campaignforge-go/internal/application/container"
	"github.com/campaignforge/campaignforge-go/internal/presentation/http/handlers"
	"github.com/campaignforge/campaignforge-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	conversationHandlers := handlers.NewConversationHandlers(container.ConversationService, container.Logger, container.PerfTracker)
	chatHandlers := handlers.NewChatHandlers(container.Generator, container.AdviceService, container.Logger, container.PerfTracker)
	campaignHandlers := handlers.NewCampaignHandlers(container.CampaignService, container.EmailService, container.Logger, container.PerfTracker)
	websocketHandlers := handlers.NewWebSocketHandlers(container.ConversationService, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container.ConversationService, container.Database, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)

	r.POST("/api/auth/login", authHandlers.PostLogin)
	r.GET("/ws/dialogue", websocketHandlers.HandleDialogue)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)
		api.POST("/chat", chatHandlers.PostChat)
		api.POST("/campaign-advice", chatHandlers.PostCampaignAdvice)

		dialogue := api.Group("/dialogue")
		dialogue.Use(middleware.AuthMiddleware(container.AuthService))
		{
			dialogue.POST("/message", conversationHandlers.PostMessage)
			dialogue.POST("/confirm", conversationHandlers.PostConfirm)
			dialogue.GET("/status/:userId", conversationHandlers.GetStatus)
			dialogue.DELETE("/session/:userId", conversationHandlers.DeleteSession)
		}

		campaignsGroup := api.Group("/campaigns")
		campaignsGroup.Use(middleware.AuthMiddleware(container.AuthService))
		{
			campaignsGroup.POST("", campaignHandlers.PostCampaign)
			campaignsGroup.GET("", campaignHandlers.ListCampaigns)
			campaignsGroup.GET("/:id", campaignHandlers.GetCampaign)
			campaignsGroup.POST("/:id/email-preview", campaignHandlers.PostEmailPreview)
		}
	}

	return r
}
