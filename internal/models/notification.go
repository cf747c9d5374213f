package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationReportCreated      = "REPORT_CREATED"
	NotificationRadiusExpanded     = "RADIUS_EXPANDED"
	NotificationNewComment         = "NEW_COMMENT"
	NotificationReportResolved     = "REPORT_RESOLVED"
	NotificationVerificationStatus = "VERIFICATION_STATUS"
)

// Notification is one persisted in-app notification for a single recipient.
// Delivery over external channels is best-effort on top of this record.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type      string     `gorm:"size:30;not null;index" json:"type"`
	Title     string     `gorm:"not null;size:255" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ReportID  *uuid.UUID `gorm:"type:uuid;index" json:"report_id,omitempty"`
	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
