package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/middleware"
	"github.com/iliyamo/clinic-management/internal/service"
)

// ProfileHandler serves the authenticated user's own profile endpoints.
type ProfileHandler struct {
	Users *service.Service
}

func NewProfileHandler(users *service.Service) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

type updateProfileReq struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}
type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
type deleteAccountReq struct {
	Password string `json:"password"`
}

// Me returns the caller's profile with the role-specific satellite data.
func (h *ProfileHandler) Me(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	detail := h.Users.GetUser(ctx, sess.UserID)
	if detail == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, detail)
}

// GetUser returns any user's profile; staff level and above.
func (h *ProfileHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	detail := h.Users.GetUser(ctx, id)
	if detail == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateProfile mutates the caller's allow-listed profile fields.  Only the
// keys present in the body are written.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	fields := map[string]string{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}

	sess := middleware.SessionFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.UpdateProfile(ctx, sess.UserID, fields)
	if !res.Success {
		return c.JSON(statusFor(res), res)
	}
	return c.JSON(http.StatusOK, res)
}

// ChangePassword swaps the caller's credential after verifying the old one.
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	sess := middleware.SessionFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.ChangePassword(ctx, sess.UserID, req.OldPassword, req.NewPassword)
	if !res.Success {
		return c.JSON(statusFor(res), res)
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteAccount removes the caller's account after credential verification.
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	var req deleteAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	sess := middleware.SessionFrom(c)
	ctx, cancel := requestCtx(c)
	defer cancel()

	res := h.Users.DeleteAccount(ctx, sess.UserID, req.Password)
	if !res.Success {
		return c.JSON(statusFor(res), res)
	}
	sess.Invalidate()
	return c.JSON(http.StatusOK, res)
}
