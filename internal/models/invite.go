package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite lets an admin pre-approve a responder account. The token is a
// one-time secret mailed to the invitee; acceptance stamps RedeemedAt.
type Invite struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email      string     `gorm:"not null;size:255;index" json:"email"`
	Role       string     `gorm:"size:20;not null" json:"role"`
	Token      string     `gorm:"uniqueIndex;not null;size:64" json:"-"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	Message    *string    `gorm:"size:1000" json:"message,omitempty"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
