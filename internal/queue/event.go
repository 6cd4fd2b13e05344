// Package queue defines message payloads exchanged over the message broker
// and the background consumer for them.
package queue

// ActivityQueueName is the durable queue carrying identity activity events.
const ActivityQueueName = "user.activity"

// UserActivityEvent mirrors one activity-log entry on the wire.  Downstream
// consumers (audit archiving, notifications) react to it without touching
// the primary database.
type UserActivityEvent struct {
	Timestamp string `json:"timestamp"`
	UserID    *int64 `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IP        string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}
