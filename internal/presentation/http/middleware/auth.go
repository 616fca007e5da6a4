package middleware

import (
	"net/http"
	"strings"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid admin bearer token on protected routes.
// It is a pass-through when authentication is disabled.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := authService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("authClaims", claims)
		c.Next()
	}
}
