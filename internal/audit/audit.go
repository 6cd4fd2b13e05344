// Package audit defines the append-only activity and error sinks the
// identity service writes to.  Entries are immutable once written and are
// never read back by this backend; they exist for operators and for
// downstream consumers on the message broker.
package audit

import (
	"context"
	"time"
)

// Activity actions recorded by the identity service.
const (
	ActionRegister             = "REGISTER"
	ActionLogin                = "LOGIN"
	ActionLoginFailed          = "LOGIN_FAILED"
	ActionLogout               = "LOGOUT"
	ActionPasswordChanged      = "PASSWORD_CHANGED"
	ActionPasswordChangeFailed = "PASSWORD_CHANGE_FAILED"
	ActionProfileUpdated       = "PROFILE_UPDATED"
	ActionAccountDeleted       = "ACCOUNT_DELETED"
	ActionUserStatusChanged    = "USER_STATUS_CHANGED"
)

// Entry is one activity record.  UserID is nil when the actor could not be
// resolved (e.g. a failed login for an unknown email).
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	UserID    *int64         `json:"user_id"`
	Action    string         `json:"action"`
	Details   string         `json:"details"`
	IP        string         `json:"ip_address"`
	UserAgent string         `json:"user_agent"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ErrorEntry is one error record.  Message carries the underlying driver or
// system error verbatim; it is written here and only here, never returned
// to API callers.
type ErrorEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"error"`
	Source    string         `json:"source"`
	Context   map[string]any `json:"context,omitempty"`
}

// ActivityLog is the write-only activity sink.
type ActivityLog interface {
	Record(ctx context.Context, e Entry)
}

// ErrorLog is the write-only error sink.
type ErrorLog interface {
	Record(e ErrorEntry)
}

// Fanout duplicates activity entries to several sinks, e.g. the local file
// sink plus the broker publisher.
type Fanout []ActivityLog

func (f Fanout) Record(ctx context.Context, e Entry) {
	for _, s := range f {
		s.Record(ctx, e)
	}
}

type clientInfoKey struct{}

// ClientInfo identifies the transport-level caller of an identity
// operation.  Handlers attach it to the request context so activity
// entries can carry it without the service knowing about HTTP.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo returns a context carrying the caller's transport details.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFrom extracts the caller details or zero values when absent.
func ClientInfoFrom(ctx context.Context) ClientInfo {
	if info, ok := ctx.Value(clientInfoKey{}).(ClientInfo); ok {
		return info
	}
	return ClientInfo{}
}
