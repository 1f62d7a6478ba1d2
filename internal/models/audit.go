package models

import "time"

// Audit actions recorded for sensitive operations.
const (
	AuditActionSignup         = "signup"
	AuditActionLogin          = "login"
	AuditActionLogout         = "logout"
	AuditActionPasswordChange = "password_change"
	AuditActionInviteEmployee = "invite_employee"
	AuditActionRevokeInvite   = "revoke_invite"
)

// AuditLog records who did what, when, for admin-facing operations.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	BusinessID string    `db:"business_id" json:"business_id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
