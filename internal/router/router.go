package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/handler"
	"github.com/iliyamo/clinic-management/internal/middleware"
	"github.com/iliyamo/clinic-management/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the identity endpoints.  Credential endpoints live
// under /v1/auth behind the brute-force limiter; everything else requires
// a valid session token.  Administrative endpoints additionally require
// the admin rank, and individual profile reads the staff rank.
func RegisterAuth(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, p *handler.ProfileHandler, adm *handler.AdminHandler, rdb *redis.Client) {
	limiter := middleware.AuthRateLimit(config.LoadLoginLimitConfig(), rdb)

	// Unauthenticated credential operations.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.POST("/reset-password", a.ResetPassword, limiter)

	// Everything below presents a session token.
	auth := e.Group("/v1")
	auth.Use(middleware.SessionAuth(cfg.JWTSecret))

	auth.POST("/logout", a.Logout)
	auth.GET("/session", a.Session)

	auth.GET("/me", p.Me)
	auth.PUT("/me", p.UpdateProfile)
	auth.POST("/me/password", p.ChangePassword)
	auth.DELETE("/me", p.DeleteAccount)

	// Staff and above can look up individual users.
	auth.GET("/users/:id", p.GetUser, middleware.RequireRole(model.RoleStaff))

	// Admin-only user management.
	admin := auth.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", adm.ListUsers)
	admin.PATCH("/users/:id/status", adm.ToggleStatus)
}
