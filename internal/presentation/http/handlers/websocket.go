package handlers

import (
	"net/http"

	"github.com/campaignforge/campaignforge-go/internal/application/services"
	"github.com/campaignforge/campaignforge-go/internal/domain/entities/conversation"
	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocketHandlers carries the dialogue over a persistent connection. Each
// inbound frame is one dialogue operation; each outbound frame is one
// dialogue response.
type WebSocketHandlers struct {
	conversations *services.ConversationService
	upgrader      websocket.Upgrader
	logger        *logging.ChanneledLogger
}

// NewWebSocketHandlers creates the WebSocket dialogue handlers.
func NewWebSocketHandlers(conversations *services.ConversationService, logger *logging.ChanneledLogger) *WebSocketHandlers {
	return &WebSocketHandlers{
		conversations: conversations,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

type wsFrame struct {
	Action          string         `json:"action"`
	UserID          string         `json:"userId"`
	Message         string         `json:"message"`
	ConfirmedParams map[string]any `json:"confirmedParams"`
}

// HandleDialogue handles GET /ws/dialogue.
func (h *WebSocketHandlers) HandleDialogue(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Dialogue().Error("WebSocket upgrade failed", "error", err.Error())
		}
		return
	}
	defer conn.Close()

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				if h.logger != nil {
					h.logger.Dialogue().Warn("WebSocket read failed", "error", err.Error())
				}
			}
			return
		}

		if frame.UserID == "" {
			if err := conn.WriteJSON(conversation.Error("userId is required")); err != nil {
				return
			}
			continue
		}

		var response *conversation.Response
		switch frame.Action {
		case "confirm":
			response = h.conversations.ConfirmParameters(c.Request.Context(), frame.UserID, frame.ConfirmedParams)
		case "end":
			h.conversations.EndSession(frame.UserID)
			response = conversation.Info("Session ended")
		default:
			if frame.Message == "" {
				response = conversation.Error("message is required")
			} else {
				response = h.conversations.ProcessMessage(c.Request.Context(), frame.UserID, frame.Message)
			}
		}

		if err := conn.WriteJSON(response); err != nil {
			return
		}
	}
}
