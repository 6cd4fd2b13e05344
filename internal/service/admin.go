package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/clinic-management/internal/audit"
	"github.com/iliyamo/clinic-management/internal/database"
	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/utils"
)

// AdminUser is one row of the administrative user listing.
type AdminUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	LastLogin string `json:"last_login,omitempty"`
	CreatedAt string `json:"created_at"`
}

// GetAllUsers lists users newest first, optionally filtered by role.  A
// non-positive limit falls back to the configured page size.
func (s *Service) GetAllUsers(ctx context.Context, limit, offset int, role string) []AdminUser {
	if limit <= 0 {
		limit = s.cfg.ItemsPerPage
	}
	if offset < 0 {
		offset = 0
	}

	qb := database.NewQueryBuilder(s.store()).
		Select("id", "email", "username", "full_name", "role", "is_active", "last_login", "created_at").
		From("users")
	if role != "" {
		qb.Where("role = ?", role)
	}
	rows := qb.OrderBy("created_at", "DESC").Limit(limit).Offset(offset).Get(ctx)

	out := make([]AdminUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, AdminUser{
			ID:        r.Int64("id"),
			Email:     r.Str("email"),
			Username:  r.Str("username"),
			FullName:  r.Str("full_name"),
			Role:      r.Str("role"),
			IsActive:  r.Bool("is_active"),
			LastLogin: r.Str("last_login"),
			CreatedAt: r.Str("created_at"),
		})
	}
	return out
}

// ToggleUserStatus activates or deactivates an account.  The acting
// administrator's session provides the actor id for the activity entry.
func (s *Service) ToggleUserStatus(ctx context.Context, actor *model.Session, userID int64, isActive bool) Result {
	st := s.store()
	active := 0
	if isActive {
		active = 1
	}
	if !st.Execute(ctx, "UPDATE users SET is_active = ? WHERE id = ?", active, userID) {
		return fail(msgOperationFailed)
	}

	verb := "deactivated"
	if isActive {
		verb = "activated"
	}
	var actorID *int64
	if actor.Alive() {
		id := actor.UserID
		actorID = &id
	}
	s.log(ctx, actorID, audit.ActionUserStatusChanged, fmt.Sprintf("%s user %d", verb, userID))
	return ok("user " + verb)
}

// ResetResult carries the generated token for a future persistence and
// delivery layer.  It is deliberately excluded from serialization: today
// the token is generated and then dropped.
type ResetResult struct {
	Result
	Token *utils.ResetToken `json:"-"`
}

// ResetPassword looks the user up and generates a reset token and its
// storage hash.  Persisting the token and mailing the link are outside
// this backend; the stub boundary ends at generation.
func (s *Service) ResetPassword(ctx context.Context, email string) ResetResult {
	email = normalizeEmail(email)
	st := s.store()
	row := st.GetOne(ctx, "SELECT id, email FROM users WHERE email = ?", email)
	if row == nil {
		return ResetResult{Result: fail(msgEmailNotRegistered)}
	}

	token, err := utils.NewResetToken()
	if err != nil {
		s.recordErr("generate reset token", err)
		return ResetResult{Result: fail(msgSystemError)}
	}
	// TODO: persist token.Hash with its expiry once the reset_tokens table
	// lands, then hand token.Raw to the mailer.
	return ResetResult{Result: ok("reset link sent"), Token: &token}
}
