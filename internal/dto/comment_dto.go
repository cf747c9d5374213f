package dto

import "github.com/google/uuid"

type CreateCommentRequest struct {
	ReportID  uuid.UUID `json:"report_id"`
	Content   string    `json:"content"`
	Location  *string   `json:"location,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
}
