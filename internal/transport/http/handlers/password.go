package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

// PasswordHandler exposes the forgot-password and reset-password endpoints.
type PasswordHandler struct {
	resets *usecase.PasswordResetService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(resets *usecase.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// RegisterRoutes binds password reset routes, applying optional middleware
// ahead of the handlers.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, resetMiddlewares ...gin.HandlerFunc) {
	forgotChain := append([]gin.HandlerFunc{}, resetMiddlewares...)
	forgotChain = append(forgotChain, h.forgotPassword)
	r.POST("/forgot-password", forgotChain...)

	r.POST("/reset-password", h.resetPassword)
}

// forgotPassword always responds with the same message whether or not the
// email maps to an account.
func (h *PasswordHandler) forgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	meta := sessionMetadataFromRequest(c)

	if err := h.resets.Request(c.Request.Context(), req.Email, meta); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to process request"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "if the email is registered, a reset link has been sent",
	})
}

func (h *PasswordHandler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	if err := h.resets.Confirm(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, usecase.ErrResetTokenInvalid):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid or expired reset token"))
		case errors.Is(err, usecase.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "password does not meet requirements"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to reset password"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset"})
}
