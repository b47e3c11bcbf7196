package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/transport/http/middleware"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

// ChatHandler proxies chat messages to the upstream MCP tool server.
type ChatHandler struct {
	chat *usecase.ChatService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *usecase.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes binds the chat routes. The group must already carry the
// session authentication middleware.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/send", h.send)
}

func (h *ChatHandler) send(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	var req ChatSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid chat payload"))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" && len(req.Args) == 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "message or args required"))
		return
	}

	result, err := h.chat.Send(c.Request.Context(), userID, message, req.Args)
	if err != nil {
		c.JSON(http.StatusBadGateway, NewErrorResponse(c, "assistant is unavailable"))
		return
	}

	c.JSON(http.StatusOK, result)
}
