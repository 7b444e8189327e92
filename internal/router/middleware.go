package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"docmanager/internal/auth"
	"docmanager/internal/errors"
	"docmanager/internal/handler"
	"docmanager/internal/service"
)

const rawTokenContextKey = "bearer_token"

func unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.ErrUnauthenticated.Error(),
		Code:  "UNAUTHENTICATED",
	})
}

// BearerToken checks the Authorization header carries a token signed by
// tokens. Expiry is left to the stored session.
func BearerToken(tokens *auth.TokenIssuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := tokens.Parse(raw)
			if err != nil {
				return nil, err
			}
			c.Set(rawTokenContextKey, raw)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthenticated()
		},
	})
}

// RequireSession resolves the bearer against the active session and
// stores the caller for the handlers.
func RequireSession(sessions service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get(rawTokenContextKey).(string)
			user, err := sessions.ResolveToken(c.Request().Context(), raw)
			if err != nil {
				if errors.MapErrorToHTTP(err).StatusCode == http.StatusUnauthorized {
					return unauthenticated()
				}
				return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
					Error: "internal server error",
					Code:  "INTERNAL_ERROR",
				}).SetInternal(err)
			}
			if claims, ok := c.Get("user").(*auth.Claims); ok && claims.Subject != user.ID {
				return unauthenticated()
			}
			handler.SetSessionUser(c, *user)
			return next(c)
		}
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if user, ok := handler.SessionUser(c); ok {
				entry = entry.WithField("user_id", user.ID)
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				entry.WithError(v.Error).Error("request failed")
			case v.Error != nil:
				entry.WithError(v.Error).Info("request rejected")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
