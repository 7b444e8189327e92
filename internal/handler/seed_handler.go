package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docmanager/internal/errors"
	"docmanager/internal/policy"
	"docmanager/internal/service"
)

// SeedHandler restores the seed data.
type SeedHandler struct {
	sessionService service.SessionService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(sessionService service.SessionService) *SeedHandler {
	return &SeedHandler{sessionService: sessionService}
}

// ResetResponse represents the reset response.
type ResetResponse struct {
	Message string `json:"message"`
}

// Reset godoc
// @Summary Reset the store to the seed data
// @Description Drops every change and the active session, which logs the caller out.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResetResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/reset [post]
func (h *SeedHandler) Reset(c echo.Context) error {
	if !policy.CanManageUsers(actor(c)) {
		return respondError(errors.ErrForbidden)
	}

	if err := h.sessionService.Reset(c.Request().Context()); err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, ResetResponse{
		Message: "store reset to seed data",
	})
}
