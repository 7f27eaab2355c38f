package domain

import "time"

// Audit actions and results recorded by the auth and guard layers.
const (
	AuditActionLogin  = "login"
	AuditActionLogout = "logout"
	AuditActionAccess = "access"

	AuditResultSuccess  = "success"
	AuditResultDenied   = "denied"
	AuditResultRejected = "rejected"
)

// AuditEvent is a single auth or access decision worth keeping a trail of.
type AuditEvent struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	ActorRole Role      `json:"actor_role,omitempty" bson:"actor_role,omitempty"`
	Action    string    `json:"action" bson:"action"`
	Path      string    `json:"path,omitempty" bson:"path,omitempty"`
	Result    string    `json:"result" bson:"result"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
