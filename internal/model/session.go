package model

import "time"

// Session is the explicit session value attached to a logged-in caller.
// It is created on login, handed back to the caller, presented on every
// subsequent identity operation and invalidated on logout or expiry.  It
// is never persisted to the backing store.
type Session struct {
	UserID   int64
	Email    string
	Username string
	Role     string
	FullName string
	LoginAt  time.Time

	invalid bool
}

// Invalidate marks the session dead.  Once invalidated every later
// validity check fails, matching a destroyed transport session.
func (s *Session) Invalidate() { s.invalid = true }

// Alive reports whether the session has not been invalidated.  It does not
// check the timeout; that is the identity service's job, since the timeout
// is configuration.
func (s *Session) Alive() bool { return s != nil && !s.invalid }
