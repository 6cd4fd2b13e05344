package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/utils"
)

const sessionKey = "session"

// SessionAuth returns an Echo middleware that reconstructs the caller's
// session from a Bearer session token and stores it in the request context
// under "session".  The token is the serialized form of the session value
// issued at login; requests without a valid one are rejected with 401.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sess, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
			}
			c.Set(sessionKey, &sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by SessionAuth, or nil when the
// route runs without it.
func SessionFrom(c echo.Context) *model.Session {
	if s, ok := c.Get(sessionKey).(*model.Session); ok {
		return s
	}
	return nil
}
