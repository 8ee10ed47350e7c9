package models

import "time"

// AuditEntry records a consequential workflow event: a dispatched submission,
// a rejected permission check, a failed upstream call.
type AuditEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"not null;index" json:"user_id"`
	Role         string    `json:"role"`
	Action       string    `gorm:"not null;index" json:"action"`
	DraftID      *string   `gorm:"index" json:"draft_id"`
	RemoteDealID *string   `json:"remote_deal_id"`
	Detail       *string   `gorm:"type:text" json:"detail"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditEntry
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// Audit action constants
const (
	AuditActionDealSubmitted    = "deal_submitted"
	AuditActionDealUpdated      = "deal_updated"
	AuditActionSubmitFailed     = "submit_failed"
	AuditActionPermissionDenied = "permission_denied"
)
