package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"docmanager/internal/errors"
	"docmanager/internal/model"
)

const userContextKey = "session_user"

// SetSessionUser stores the resolved caller on the request context.
func SetSessionUser(c echo.Context, user model.PublicUser) {
	c.Set(userContextKey, user)
}

// SessionUser returns the resolved caller, if any.
func SessionUser(c echo.Context) (model.PublicUser, bool) {
	user, ok := c.Get(userContextKey).(model.PublicUser)
	return user, ok
}

func actor(c echo.Context) model.Actor {
	user, _ := SessionUser(c)
	return user.Actor()
}

// respondError maps a service error onto the standard error body. The
// original error is kept as the internal cause for the request log.
func respondError(err error) *echo.HTTPError {
	mapped := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}
