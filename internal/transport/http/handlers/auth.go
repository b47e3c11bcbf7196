package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/transport/http/middleware"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

// AuthHandler exposes registration, login, logout, and the authenticated
// account summary.
type AuthHandler struct {
	auth     *usecase.AuthService
	sessions *usecase.SessionService
	cookies  SessionCookieConfig
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, sessions *usecase.SessionService, cookies SessionCookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		cookies:  cookies,
	}
}

// RegisterRoutes binds authentication routes, applying optional middleware
// ahead of the register and login handlers.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, authMiddleware gin.HandlerFunc, registerMiddlewares, loginMiddlewares []gin.HandlerFunc) {
	registerChain := append([]gin.HandlerFunc{}, registerMiddlewares...)
	registerChain = append(registerChain, h.register)
	r.POST("/register", registerChain...)

	loginChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	loginChain = append(loginChain, h.login)
	r.POST("/login", loginChain...)

	r.POST("/logout", h.logout)
	r.GET("/me", authMiddleware, h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	ip := strings.TrimSpace(c.ClientIP())
	input := usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if ip != "" {
		input.IP = &ip
	}

	user, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
		}, http.StatusInternalServerError, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{User: newUserSummary(*user)})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	meta := sessionMetadataFromRequest(c)

	rawToken, _, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, meta)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid credentials"))
		case errors.Is(err, usecase.ErrInactiveAccount):
			c.JSON(http.StatusForbidden, NewErrorResponse(c, "inactive account"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "authentication failed"))
		}
		return
	}

	http.SetCookie(c.Writer, NewSessionCookie(h.cookies, rawToken, h.sessions.TTL()))

	c.JSON(http.StatusOK, LoginResponse{User: newUserSummary(*user)})
}

// logout revokes the presented session cookie. A missing or unknown cookie
// still succeeds; either way the browser cookie is cleared.
func (h *AuthHandler) logout(c *gin.Context) {
	if rawToken, err := c.Cookie(h.cookies.Name); err == nil && rawToken != "" {
		if err := h.sessions.Revoke(c.Request.Context(), rawToken); err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to revoke session"))
			return
		}
	}

	http.SetCookie(c.Writer, ClearSessionCookie(h.cookies))

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) me(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authenticated"))
		return
	}

	c.JSON(http.StatusOK, newUserSummary(*user))
}

func sessionMetadataFromRequest(c *gin.Context) usecase.SessionMetadata {
	meta := usecase.SessionMetadata{}

	if ip := strings.TrimSpace(c.ClientIP()); ip != "" {
		meta.IP = &ip
	}
	if ua := strings.TrimSpace(c.Request.UserAgent()); ua != "" {
		meta.UserAgent = &ua
	}

	return meta
}
