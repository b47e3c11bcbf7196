package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/core/domain"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

const currentUserKey = "current_user"

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// SessionAuth validates the session cookie and loads the authenticated user.
// Missing cookie, unknown token, expired session, revoked session, and
// inactive account all produce the same 401 response.
func SessionAuth(cookieName string, auth *usecase.AuthService, sessions *usecase.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, err := c.Cookie(cookieName)
		if err != nil || rawToken == "" {
			abortUnauthenticated(c)
			return
		}

		session, err := sessions.Validate(c.Request.Context(), rawToken)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), session.UserID)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(currentUserKey, user)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = user.ID
		}

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		newErrorResponse(c, "not authenticated"))
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}

// GetAuthenticatedUser retrieves the full authenticated user from context.
func GetAuthenticatedUser(c *gin.Context) (*domain.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}

	user, ok := val.(*domain.User)
	return user, ok
}
