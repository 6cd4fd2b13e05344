package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/clinic-management/internal/audit"
	"github.com/iliyamo/clinic-management/internal/database"
	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/utils"
)

// UserDetail is the public profile plus the role-specific satellite record
// when one exists.
type UserDetail struct {
	model.PublicUser
	CreatedAt   string                `json:"created_at,omitempty"`
	PatientData *model.PatientProfile `json:"patient_data,omitempty"`
	DoctorData  *model.DoctorProfile  `json:"doctor_data,omitempty"`
}

// GetUser returns the public profile for userID, or nil when the user does
// not exist.  Reads go through the query builder.
func (s *Service) GetUser(ctx context.Context, userID int64) *UserDetail {
	st := s.store()
	row := database.NewQueryBuilder(st).
		Select("id", "email", "username", "full_name", "role", "phone", "avatar", "created_at").
		From("users").
		Where("id = ?", userID).
		First(ctx)
	if row == nil {
		return nil
	}

	detail := &UserDetail{
		PublicUser: model.PublicUser{
			ID:       row.Int64("id"),
			Email:    row.Str("email"),
			Username: row.Str("username"),
			FullName: row.Str("full_name"),
			Role:     row.Str("role"),
			Phone:    row.Str("phone"),
			Avatar:   row.Str("avatar"),
		},
		CreatedAt: row.Str("created_at"),
	}

	switch detail.Role {
	case model.RolePatient:
		if p := database.NewQueryBuilder(st).From("patients").Where("user_id = ?", userID).First(ctx); p != nil {
			detail.PatientData = &model.PatientProfile{
				ID:        p.Int64("id"),
				UserID:    p.Int64("user_id"),
				Name:      p.Str("name"),
				Email:     p.Str("email"),
				Phone:     p.Str("phone"),
				CreatedAt: p.Str("created_at"),
			}
		}
	case model.RoleDoctor:
		if d := database.NewQueryBuilder(st).From("doctors").Where("user_id = ?", userID).First(ctx); d != nil {
			detail.DoctorData = &model.DoctorProfile{
				ID:        d.Int64("id"),
				UserID:    d.Int64("user_id"),
				Name:      d.Str("name"),
				Email:     d.Str("email"),
				Specialty: d.Str("specialty"),
				CreatedAt: d.Str("created_at"),
			}
		}
	}
	return detail
}

// profileFields is the explicit allow-list of caller-mutable columns.
// Order matters so the rendered UPDATE is deterministic.
var profileFields = []string{"full_name", "phone", "avatar"}

// UpdateProfile mutates only allow-listed fields and rejects an empty
// update set.  Unknown keys are silently dropped, never written.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, fields map[string]string) Result {
	var (
		assignments []string
		params      []any
	)
	for _, f := range profileFields {
		v, found := fields[f]
		if !found {
			continue
		}
		if f == "phone" && v != "" && !utils.IsValidPhone(v) {
			return fail(msgInvalidPhone)
		}
		assignments = append(assignments, f+" = ?")
		params = append(params, v)
	}
	if len(assignments) == 0 {
		return fail(msgNothingToUpdate)
	}

	params = append(params, userID)
	query := fmt.Sprintf("UPDATE users SET %s, updated_at = NOW() WHERE id = ?",
		strings.Join(assignments, ", "))

	st := s.store()
	if !st.Execute(ctx, query, params...) {
		return fail(msgSystemError)
	}
	s.log(ctx, &userID, audit.ActionProfileUpdated, "profile updated")
	return ok("profile updated")
}

// ChangePassword verifies the old credential and stores a new hash.  The
// new password must meet the configured minimum length.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) Result {
	if len(newPassword) < s.cfg.PasswordMinLength {
		return fail(msgPasswordTooShort)
	}

	st := s.store()
	row := st.GetOne(ctx, "SELECT password_hash FROM users WHERE id = ?", userID)
	if row == nil {
		return fail(msgUserNotFound)
	}
	if !utils.VerifyPassword(row.Str("password_hash"), oldPassword) {
		s.log(ctx, &userID, audit.ActionPasswordChangeFailed, "old password incorrect")
		return fail(msgOldPasswordWrong)
	}

	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		s.recordErr("hash password", err)
		return fail(msgSystemError)
	}
	if !st.Execute(ctx, "UPDATE users SET password_hash = ?, updated_at = NOW() WHERE id = ?", hash, userID) {
		return fail(msgSystemError)
	}
	s.log(ctx, &userID, audit.ActionPasswordChanged, "password changed")
	return ok("password changed")
}

// DeleteAccount verifies the credential and removes the satellite record
// and the user row in one transaction; any failure rolls back fully.
func (s *Service) DeleteAccount(ctx context.Context, userID int64, password string) Result {
	st := s.store()
	row := st.GetOne(ctx, "SELECT password_hash, role FROM users WHERE id = ?", userID)
	if row == nil {
		return fail(msgUserNotFound)
	}
	if !utils.VerifyPassword(row.Str("password_hash"), password) {
		return fail(msgInvalidCredentials)
	}

	role := row.Str("role")
	committed := s.withTx(ctx, st, func() bool {
		switch role {
		case model.RolePatient:
			if !st.Execute(ctx, "DELETE FROM patients WHERE user_id = ?", userID) {
				return false
			}
		case model.RoleDoctor:
			if !st.Execute(ctx, "DELETE FROM doctors WHERE user_id = ?", userID) {
				return false
			}
		}
		if !st.Execute(ctx, "DELETE FROM users WHERE id = ?", userID) {
			return false
		}
		s.log(ctx, &userID, audit.ActionAccountDeleted, "account deleted")
		return true
	})
	if !committed {
		return fail(msgSystemError)
	}
	return ok("account deleted")
}
