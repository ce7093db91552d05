package domain

import "time"

// AuditAction names a security-relevant activity.
type AuditAction string

const (
	AuditLogin        AuditAction = "LOGIN"
	AuditLoginFailed  AuditAction = "LOGIN_FAILED"
	AuditLogout       AuditAction = "LOGOUT"
	AuditCreateUser   AuditAction = "CREATE_USER"
	AuditToggleStatus AuditAction = "TOGGLE_STATUS"
	AuditImportUsers  AuditAction = "IMPORT_USERS"
)

// AuditEntry records one activity for the admin audit view.
type AuditEntry struct {
	Timestamp time.Time   `json:"ts" bson:"ts"`
	Actor     string      `json:"actor" bson:"actor"`
	Action    AuditAction `json:"action" bson:"action"`
	Details   string      `json:"details" bson:"details"`
}
