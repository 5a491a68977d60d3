package model

import (
	"time"

	"github.com/google/uuid"
)

// Back-office actions recorded in the audit trail.
const (
	ActionUpdateStatus  = "UPDATE_STATUS"
	ActionMarkEmailSent = "MARK_EMAIL_SENT"
)

// AuditLog tracks who did what to which submission. There are no user
// accounts; the actor is the subject of the back-office token.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Actor     string    `gorm:"type:varchar(128);index" json:"actor"` // empty for automated callers
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Reference string    `gorm:"type:varchar(40);index" json:"reference"`
	Details   string    `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
