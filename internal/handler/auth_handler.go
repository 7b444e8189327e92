package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"docmanager/internal/errors"
	"docmanager/internal/model"
	"docmanager/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessionService service.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{sessionService: sessionService}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	User        model.PublicUser `json:"user"`
}

// Login godoc
// @Summary Login user
// @Description Replaces the active session. The returned token is sent as "Bearer <token>".
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return respondError(errors.Invalid("%v", err))
	}

	session, err := h.sessionService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		AccessToken: session.Token,
		ExpiresAt:   session.ExpiresAt,
		User:        session.User,
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the active session. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessionService.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := SessionUser(c)
	if !ok {
		return respondError(errors.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, user)
}
