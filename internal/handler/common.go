package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/audit"
	"github.com/iliyamo/clinic-management/internal/service"
)

// requestCtx bounds downstream database calls and attaches the caller's
// transport details so activity entries carry them.
func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := audit.WithClientInfo(c.Request().Context(), audit.ClientInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	return context.WithTimeout(ctx, 5*time.Second)
}

// statusFor maps a failed result to an HTTP status.  The service speaks in
// user-facing messages, so the mapping keys on them.
func statusFor(r service.Result) int {
	switch r.Error {
	case "system error", "operation failed":
		return http.StatusInternalServerError
	case "user already registered":
		return http.StatusConflict
	case "invalid credentials":
		return http.StatusUnauthorized
	case "user not found", "email not registered":
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
