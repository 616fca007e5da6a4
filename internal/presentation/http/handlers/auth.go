package handlers

import (
	"net/http"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AuthHandlers exposes admin login.
type AuthHandlers struct {
	auth   *services.AuthService
	logger *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with dependencies.
func NewAuthHandlers(auth *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/auth/login.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
