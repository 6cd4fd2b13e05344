// Package service implements the clinic identity operations on top of the
// statement executor.  Every operation returns a structured result and
// never panics; persistence failures roll back any open transaction and
// surface as a generic message while the underlying error goes to the
// error sink only.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/clinic-management/internal/audit"
	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/database"
	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/utils"
)

// User-facing result messages.  Login failures share one message for a
// missing user and a wrong password so the API does not reveal which
// emails exist.
const (
	msgInvalidEmail       = "invalid email address"
	msgPasswordTooShort   = "password too short"
	msgPasswordTooWeak    = "password too weak"
	msgAlreadyRegistered  = "user already registered"
	msgInvalidCredentials = "invalid credentials"
	msgSystemError        = "system error"
	msgUserNotFound       = "user not found"
	msgOldPasswordWrong   = "old password incorrect"
	msgNothingToUpdate    = "no fields to update"
	msgInvalidPhone       = "invalid phone number"
	msgNoSession          = "no session"
	msgSessionExpired     = "session expired"
	msgEmailNotRegistered = "email not registered"
	msgOperationFailed    = "operation failed"
)

// Result is the uniform outcome shape every identity operation embeds.
// Callers branch on Success; faults are never raised.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(message string) Result { return Result{Success: true, Message: message} }

func fail(errMsg string) Result { return Result{Error: errMsg} }

// Service bundles the identity operations.  A fresh Store is created per
// operation so transaction and error state never leak between requests;
// the *sql.DB underneath is the shared pool.
type Service struct {
	store    func() database.Store
	cfg      config.Config
	activity audit.ActivityLog
	errlog   audit.ErrorLog
	now      func() time.Time
}

// New wires the service to the shared pool and the log sinks.
func New(db *sql.DB, cfg config.Config, activity audit.ActivityLog, errlog audit.ErrorLog) *Service {
	return &Service{
		store:    func() database.Store { return database.NewExecutor(db, errlog) },
		cfg:      cfg,
		activity: activity,
		errlog:   errlog,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewWithStore is the seam used by tests and by callers that supply their
// own Store implementation.
func NewWithStore(store func() database.Store, cfg config.Config, activity audit.ActivityLog, errlog audit.ErrorLog) *Service {
	s := New(nil, cfg, activity, errlog)
	s.store = store
	return s
}

// withTx runs fn inside a single-level transaction and guarantees rollback
// on every non-success path before returning.
func (s *Service) withTx(ctx context.Context, st database.Store, fn func() bool) bool {
	if !st.Begin(ctx) {
		return false
	}
	if !fn() {
		st.Rollback()
		return false
	}
	return st.Commit()
}

// log records an activity entry; the sink may fan out to files and the
// message broker.
func (s *Service) log(ctx context.Context, userID *int64, action, details string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, audit.Entry{
		Timestamp: s.now(),
		UserID:    userID,
		Action:    action,
		Details:   details,
	})
}

// isDuplicate reports whether the recorded executor error is a MySQL
// unique-constraint violation (error 1062).  The constraint, not the
// pre-insert existence check, is the authoritative conflict detector.
func isDuplicate(errMsg string) bool {
	return strings.Contains(errMsg, "1062") ||
		strings.Contains(strings.ToLower(errMsg), "duplicate")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterResult carries the new user's id on success.
type RegisterResult struct {
	Result
	UserID int64 `json:"user_id,omitempty"`
}

// Register creates a user and, when the role requires one, its satellite
// profile record in the same transaction.  Validation failures are local
// and perform no writes.
func (s *Service) Register(ctx context.Context, email, username, password, fullName, role string) RegisterResult {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if role == "" {
		role = model.RolePatient
	}

	if !utils.IsValidEmail(email) {
		return RegisterResult{Result: fail(msgInvalidEmail)}
	}
	if !model.ValidRole(role) {
		return RegisterResult{Result: fail("unknown role")}
	}
	if len(password) < s.cfg.PasswordMinLength {
		return RegisterResult{Result: fail(msgPasswordTooShort)}
	}
	if utils.CheckPasswordStrength(password).Score < 60 {
		return RegisterResult{Result: fail(msgPasswordTooWeak)}
	}

	st := s.store()

	// Advisory pre-check for the common case; two concurrent registrations
	// can both pass it, and then the unique constraint decides (see the
	// duplicate-key handling below).
	if st.GetOne(ctx, "SELECT id FROM users WHERE email = ? OR username = ?", email, username) != nil {
		return RegisterResult{Result: fail(msgAlreadyRegistered)}
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		s.recordErr("hash password", err)
		return RegisterResult{Result: fail(msgSystemError)}
	}

	var userID int64
	committed := s.withTx(ctx, st, func() bool {
		if !st.Execute(ctx,
			`INSERT INTO users (email, username, password_hash, full_name, role, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, 1, NOW(), NOW())`,
			email, username, hash, fullName, role) {
			return false
		}
		userID = st.LastInsertID()

		switch role {
		case model.RolePatient:
			if !st.Execute(ctx,
				"INSERT INTO patients (user_id, name, email, phone, created_at) VALUES (?, ?, ?, ?, NOW())",
				userID, fullName, email, "") {
				return false
			}
		case model.RoleDoctor:
			if !st.Execute(ctx,
				"INSERT INTO doctors (user_id, name, email, created_at) VALUES (?, ?, ?, NOW())",
				userID, fullName, email) {
				return false
			}
		}

		s.log(ctx, &userID, audit.ActionRegister, "new user registered: "+email)
		return true
	})
	if !committed {
		if isDuplicate(st.Err()) {
			return RegisterResult{Result: fail(msgAlreadyRegistered)}
		}
		return RegisterResult{Result: fail(msgSystemError)}
	}

	return RegisterResult{Result: ok("registration successful"), UserID: userID}
}

// LoginResult carries the public user fields and the established session.
// The session itself is for the transport layer and is not serialized.
type LoginResult struct {
	Result
	User    *model.PublicUser `json:"user,omitempty"`
	Session *model.Session    `json:"-"`
}

// Login authenticates by email and password.  A missing user and a wrong
// password produce the same caller-visible error but distinct activity
// entries.
func (s *Service) Login(ctx context.Context, email, password string) LoginResult {
	email = normalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return LoginResult{Result: fail(msgInvalidEmail)}
	}

	st := s.store()
	row := st.GetOne(ctx,
		"SELECT id, email, username, password_hash, full_name, role FROM users WHERE email = ? AND is_active = 1",
		email)
	if row == nil {
		s.log(ctx, nil, audit.ActionLoginFailed, "failed login attempt: "+email)
		return LoginResult{Result: fail(msgInvalidCredentials)}
	}

	userID := row.Int64("id")
	if !utils.VerifyPassword(row.Str("password_hash"), password) {
		s.log(ctx, &userID, audit.ActionLoginFailed, "wrong password")
		return LoginResult{Result: fail(msgInvalidCredentials)}
	}

	st.Execute(ctx, "UPDATE users SET last_login = NOW() WHERE id = ?", userID)

	sess := &model.Session{
		UserID:   userID,
		Email:    row.Str("email"),
		Username: row.Str("username"),
		Role:     row.Str("role"),
		FullName: row.Str("full_name"),
		LoginAt:  s.now(),
	}
	s.log(ctx, &userID, audit.ActionLogin, "successful login")

	return LoginResult{
		Result: ok("login successful"),
		User: &model.PublicUser{
			ID:       userID,
			Email:    sess.Email,
			Username: sess.Username,
			FullName: sess.FullName,
			Role:     sess.Role,
		},
		Session: sess,
	}
}

// Logout records the logout and invalidates the session.  A nil or already
// dead session still logs, with a null user id.
func (s *Service) Logout(ctx context.Context, sess *model.Session) Result {
	var userID *int64
	if sess.Alive() {
		id := sess.UserID
		userID = &id
	}
	s.log(ctx, userID, audit.ActionLogout, "logout")
	if sess != nil {
		sess.Invalidate()
	}
	return ok("logout successful")
}

// SessionStatus is the outcome of a session validity check.
type SessionStatus struct {
	Valid         bool   `json:"valid"`
	Message       string `json:"message,omitempty"`
	UserID        int64  `json:"user_id,omitempty"`
	Role          string `json:"role,omitempty"`
	TimeRemaining int64  `json:"time_remaining,omitempty"` // seconds
}

// CheckSession derives validity from the login timestamp and the
// configured timeout.  An expired session is invalidated as a side effect,
// so subsequent checks on the same value also fail.
func (s *Service) CheckSession(sess *model.Session) SessionStatus {
	if !sess.Alive() {
		return SessionStatus{Message: msgNoSession}
	}
	timeout := time.Duration(s.cfg.SessionTimeoutSec) * time.Second
	elapsed := s.now().Sub(sess.LoginAt)
	if elapsed > timeout {
		sess.Invalidate()
		return SessionStatus{Message: msgSessionExpired}
	}
	return SessionStatus{
		Valid:         true,
		UserID:        sess.UserID,
		Role:          sess.Role,
		TimeRemaining: int64((timeout - elapsed).Seconds()),
	}
}

// recordErr forwards an internal error to the error sink.
func (s *Service) recordErr(op string, err error) {
	if s.errlog == nil {
		return
	}
	s.errlog.Record(audit.ErrorEntry{
		Timestamp: s.now(),
		Message:   fmt.Sprintf("%s: %v", op, err),
	})
}
