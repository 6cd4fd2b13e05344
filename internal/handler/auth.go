package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/middleware"
	"github.com/iliyamo/clinic-management/internal/service"
	"github.com/iliyamo/clinic-management/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *service.Service
}

func NewAuthHandler(cfg config.Config, users *service.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // admin | doctor | staff | patient
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type resetReq struct {
	Email string `json:"email"`
}

// Register: create the user (and satellite profile) and report the id.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.Register(ctx, req.Email, req.Username, req.Password, req.FullName, req.Role)
	if !res.Success {
		return c.JSON(statusFor(res.Result), res)
	}
	return c.JSON(http.StatusCreated, res)
}

// Login: verify credentials and return the session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.Login(ctx, req.Email, req.Password)
	if !res.Success {
		return c.JSON(statusFor(res.Result), res)
	}

	timeout := time.Duration(h.Cfg.SessionTimeoutSec) * time.Second
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, *res.Session, timeout)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": res.Message,
		"user":    res.User,
		"token":   token,
		"expires": res.Session.LoginAt.Add(timeout),
	})
}

// Logout: record the logout and invalidate the presented session.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.Logout(ctx, middleware.SessionFrom(c))
	return c.JSON(http.StatusOK, res)
}

// Session: report validity, role and remaining time for the presented
// session.
func (h *AuthHandler) Session(c echo.Context) error {
	status := h.Users.CheckSession(middleware.SessionFrom(c))
	if !status.Valid {
		return c.JSON(http.StatusUnauthorized, status)
	}
	return c.JSON(http.StatusOK, status)
}

// ResetPassword: generate a reset token for the address.  Only the generic
// acknowledgement leaves the API; the token is not delivered anywhere yet.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.ResetPassword(ctx, req.Email)
	if !res.Success {
		return c.JSON(statusFor(res.Result), res)
	}
	return c.JSON(http.StatusOK, res)
}
