package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/transport/http/middleware"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

// SessionHandler lets an authenticated user inspect and revoke their sessions.
type SessionHandler struct {
	sessions *usecase.SessionService
	cookies  SessionCookieConfig
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions *usecase.SessionService, cookies SessionCookieConfig) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies}
}

// RegisterRoutes binds the session management routes. The group must already
// carry the session authentication middleware.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("/revoke-all", h.revokeAll)
}

func (h *SessionHandler) list(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	sessions, err := h.sessions.ListActive(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list sessions"))
		return
	}

	payload := make([]SessionPayload, 0, len(sessions))
	for _, session := range sessions {
		payload = append(payload, newSessionPayload(session))
	}

	c.JSON(http.StatusOK, SessionListResponse{
		Sessions: payload,
		Total:    len(payload),
	})
}

// revokeAll invalidates every session for the caller, including the current
// one, and clears the session cookie.
func (h *SessionHandler) revokeAll(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	count, err := h.sessions.RevokeAll(c.Request.Context(), userID, "user", "revoke_all_request")
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to revoke sessions"))
		return
	}

	http.SetCookie(c.Writer, ClearSessionCookie(h.cookies))

	c.JSON(http.StatusOK, gin.H{"revoked": count})
}
