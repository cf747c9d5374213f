package models

import (
	"time"

	"github.com/google/uuid"
)

// Abuse report states.
const (
	AbuseOpen      = "OPEN"
	AbuseReviewed  = "REVIEWED"
	AbuseDismissed = "DISMISSED"
)

// AbuseReport flags a report as fraudulent or abusive for admin review.
type AbuseReport struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"report_id"`
	ReporterID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reason          string     `gorm:"not null;size:500" json:"reason"`
	Details         *string    `gorm:"size:2000" json:"details,omitempty"`
	Status          string     `gorm:"size:20;not null;default:'OPEN'" json:"status"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ResolutionNotes *string    `gorm:"size:1000" json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (AbuseReport) TableName() string {
	return "report_abuse"
}
