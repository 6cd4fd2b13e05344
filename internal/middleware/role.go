package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/model"
)

// RequireRole returns a middleware enforcing that the caller's role ranks
// at least as high as required in the fixed role hierarchy.  A missing
// session or an unknown role denies; there is no default-allow path.  It
// assumes SessionAuth ran earlier in the chain.
func RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || !model.HasPermission(sess.Role, required) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
