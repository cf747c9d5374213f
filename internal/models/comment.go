package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a sighting or tip left on a report by a verified user.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Location  *string   `gorm:"size:255" json:"location,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
}
