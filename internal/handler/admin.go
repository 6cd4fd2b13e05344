package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/middleware"
	"github.com/iliyamo/clinic-management/internal/service"
)

// AdminHandler serves the administrative user-management endpoints.
type AdminHandler struct {
	Users *service.Service
}

func NewAdminHandler(users *service.Service) *AdminHandler {
	return &AdminHandler{Users: users}
}

type toggleStatusReq struct {
	IsActive bool `json:"is_active"`
}

// ListUsers returns a page of users, newest first, optionally filtered by
// role via ?role=.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	role := c.QueryParam("role")

	ctx, cancel := requestCtx(c)
	defer cancel()

	users := h.Users.GetAllUsers(ctx, limit, offset, role)
	return c.JSON(http.StatusOK, echo.Map{"users": users, "count": len(users)})
}

// ToggleStatus activates or deactivates an account.
func (h *AdminHandler) ToggleStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req toggleStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.ToggleUserStatus(ctx, middleware.SessionFrom(c), id, req.IsActive)
	if !res.Success {
		return c.JSON(statusFor(res), res)
	}
	return c.JSON(http.StatusOK, res)
}
