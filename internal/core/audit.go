package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "auth.login", "auth.logout")
	Action string `json:"action"`

	// UserID identifies the principal, 0 if the request never resolved one.
	UserID int64 `json:"user_id,omitempty"`

	// Email of the principal, if known.
	Email string `json:"email,omitempty"`

	// TokenFingerprint is the SHA-256 fingerprint of the session token
	// involved. Raw tokens are never written to the audit log.
	TokenFingerprint string `json:"token_fingerprint,omitempty"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Metadata contains action-specific details (e.g. swept entry counts).
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}

// AuditQuerier is implemented by auditors that can be read back over the API.
type AuditQuerier interface {
	// GetRecent returns up to limit entries, newest last.
	GetRecent(limit int) ([]AuditEntry, error)

	// Find returns up to limit entries matching the filter.
	Find(filter func(entry AuditEntry) bool, limit int) ([]AuditEntry, error)
}
