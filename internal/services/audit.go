package services

import (
	"encoding/json"
	"log/slog"

	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// appendAudit writes one append-only audit entry. Audit failures are logged
// but never fail the action being audited.
func appendAudit(db *gorm.DB, actorID uuid.UUID, action, entityType string, entityID *string, metadata map[string]interface{}) {
	entry := models.AuditLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(b)
		}
	}
	if err := db.Create(&entry).Error; err != nil {
		slog.Error("audit log write failed", "action", action, "error", err)
	}
}
