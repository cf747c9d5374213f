package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit entity types.
const (
	AuditEntityUser    = "USER"
	AuditEntityReport  = "REPORT"
	AuditEntityComment = "COMMENT"
	AuditEntitySystem  = "SYSTEM"
)

// AuditLog is an append-only record of sensitive actions (verification
// decisions, invites, abuse reports, manual radius expansions).
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action     string         `gorm:"size:100;not null;index" json:"action"`
	EntityType string         `gorm:"size:20;not null" json:"entity_type"`
	EntityID   *string        `gorm:"size:36" json:"entity_id,omitempty"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt  time.Time      `json:"created_at"`
}
