package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User roles. Responder roles receive new-report alerts; GOVERNMENT and
// POLICE additionally act as admins for verification review and invites.
const (
	RoleCitizen     = "CITIZEN"
	RolePolice      = "POLICE"
	RoleGovernment  = "GOVERNMENT"
	RoleSecurity    = "SECURITY"
	RoleNGO         = "NGO"
	RoleMedical     = "MEDICAL"
	RoleTeacher     = "TEACHER"
	RoleLocalLeader = "LOCAL_LEADER"
)

// Verification lifecycle.
const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

// ResponderRoles is the fixed audience for new-report alerts. Citizens are
// not responders.
var ResponderRoles = []string{RolePolice, RoleNGO, RoleMedical, RoleGovernment}

// AdminRoles may review verification queues, create invites and expand radii.
var AdminRoles = []string{RoleGovernment, RolePolice}

// PreferredChannels holds a user's per-channel notification opt-ins.
type PreferredChannels struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// DefaultPreferredChannels enables every channel.
func DefaultPreferredChannels() PreferredChannels {
	return PreferredChannels{SMS: true, Email: true, Push: true}
}

type User struct {
	ID                 uuid.UUID                             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email              string                                `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password           string                                `gorm:"not null" json:"-"`
	FirstName          string                                `gorm:"not null;size:100" json:"first_name"`
	LastName           string                                `gorm:"not null;size:100" json:"last_name"`
	Phone              *string                               `gorm:"size:30" json:"phone,omitempty"`
	Address            *string                               `gorm:"size:255" json:"address,omitempty"`
	City               *string                               `gorm:"size:100" json:"city,omitempty"`
	State              *string                               `gorm:"size:100" json:"state,omitempty"`
	Pincode            *string                               `gorm:"size:20" json:"pincode,omitempty"`
	UserType           string                                `gorm:"size:20;not null;default:'CITIZEN';index" json:"user_type"`
	IsVerified         bool                                  `gorm:"not null;default:false" json:"is_verified"`
	VerificationStatus string                                `gorm:"size:20;not null;default:'PENDING';index" json:"verification_status"`
	VerificationNotes  *string                               `gorm:"size:1000" json:"verification_notes,omitempty"`
	PreferredChannels  datatypes.JSONType[PreferredChannels] `gorm:"type:jsonb" json:"preferred_channels"`
	CreatedAt          time.Time                             `json:"created_at"`
	UpdatedAt          time.Time                             `json:"updated_at"`
}

// IsResponder reports whether the user belongs to the responder audience.
func (u *User) IsResponder() bool {
	if !u.IsVerified || u.VerificationStatus != VerificationApproved {
		return false
	}
	for _, role := range ResponderRoles {
		if u.UserType == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user's role carries admin capabilities.
func (u *User) IsAdmin() bool {
	for _, role := range AdminRoles {
		if u.UserType == role {
			return true
		}
	}
	return false
}
