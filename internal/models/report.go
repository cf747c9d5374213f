package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report lifecycle.
const (
	ReportActive   = "ACTIVE"
	ReportResolved = "RESOLVED"
	ReportExpired  = "EXPIRED"
)

// Radius expansion provenance.
const (
	ExpandedBySystem = "SYSTEM"
	ExpandedByAdmin  = "ADMIN"
)

// RadiusExpansion is one entry of a report's append-only radius history.
type RadiusExpansion struct {
	Radius     float64   `json:"radius"`
	ExpandedAt time.Time `json:"expanded_at"`
	ExpandedBy string    `json:"expanded_by"`
	Reason     *string   `json:"reason,omitempty"`
}

// Report is a safety report (missing person, incident) with a geographic
// alert radius that grows over time while the report stays active.
//
// CurrentRadius never shrinks while the report is ACTIVE, and every radius
// change appends exactly one RadiusHistory entry; LastRadiusExpand always
// mirrors the newest entry's timestamp (CreatedAt when history is empty).
type Report struct {
	ID               uuid.UUID                             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title            string                                `gorm:"not null;size:255" json:"title"`
	Description      string                                `gorm:"type:text;not null" json:"description"`
	Category         string                                `gorm:"not null;size:50;index" json:"category"`
	SubCategory      *string                               `gorm:"size:50" json:"sub_category,omitempty"`
	Priority         string                                `gorm:"size:20;default:'MEDIUM'" json:"priority"`
	Status           string                                `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	Location         string                                `gorm:"not null;size:255" json:"location"`
	City             *string                               `gorm:"size:100" json:"city,omitempty"`
	State            *string                               `gorm:"size:100" json:"state,omitempty"`
	Pincode          *string                               `gorm:"size:20" json:"pincode,omitempty"`
	Latitude         float64                               `gorm:"not null" json:"latitude"`
	Longitude        float64                               `gorm:"not null" json:"longitude"`
	InitialRadius    float64                               `gorm:"not null" json:"initial_radius"`
	CurrentRadius    float64                               `gorm:"not null" json:"current_radius"`
	ContactInfo      string                                `gorm:"not null;size:255" json:"contact_info"`
	EmergencyContact *string                               `gorm:"size:255" json:"emergency_contact,omitempty"`
	Reward           *string                               `gorm:"size:100" json:"reward,omitempty"`
	LastSeen         *time.Time                            `json:"last_seen,omitempty"`
	Age              *int                                  `json:"age,omitempty"`
	Gender           *string                               `gorm:"size:20" json:"gender,omitempty"`
	Height           *string                               `gorm:"size:50" json:"height,omitempty"`
	Build            *string                               `gorm:"size:50" json:"build,omitempty"`
	Clothing         *string                               `gorm:"size:255" json:"clothing,omitempty"`
	SpecialMarks     *string                               `gorm:"size:255" json:"special_marks,omitempty"`
	AuthorID         uuid.UUID                             `gorm:"type:uuid;not null;index" json:"author_id"`
	AuthorName       string                                `gorm:"size:200" json:"author_name"`
	AuthorType       string                                `gorm:"size:20;default:'CITIZEN'" json:"author_type"`
	LastRadiusExpand *time.Time                            `json:"last_radius_expand,omitempty"`
	RadiusHistory    datatypes.JSONSlice[RadiusExpansion]  `gorm:"type:jsonb" json:"radius_history"`
	ResolvedAt       *time.Time                            `json:"resolved_at,omitempty"`
	CreatedAt        time.Time                             `json:"created_at"`
	UpdatedAt        time.Time                             `json:"updated_at"`
	Author           User                                  `gorm:"foreignKey:AuthorID" json:"-"`
}

// LastExpandOrCreated returns the reference time for expansion eligibility.
func (r *Report) LastExpandOrCreated() time.Time {
	if r.LastRadiusExpand != nil {
		return *r.LastRadiusExpand
	}
	return r.CreatedAt
}
