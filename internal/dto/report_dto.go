package dto

import (
	"time"

	"github.com/findin/findin-backend/internal/models"
)

type CreateReportRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	SubCategory      *string `json:"sub_category,omitempty"`
	Priority         string  `json:"priority,omitempty"`
	Location         string  `json:"location"`
	City             *string `json:"city,omitempty"`
	State            *string `json:"state,omitempty"`
	Pincode          *string `json:"pincode,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	InitialRadius    float64 `json:"initial_radius,omitempty"`
	ContactInfo      string  `json:"contact_info"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Reward           *string `json:"reward,omitempty"`
	LastSeen         *string `json:"last_seen,omitempty"`
	Age              *int    `json:"age,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Height           *string `json:"height,omitempty"`
	Build            *string `json:"build,omitempty"`
	Clothing         *string `json:"clothing,omitempty"`
	SpecialMarks     *string `json:"special_marks,omitempty"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

type ExpandRadiusRequest struct {
	Radius float64 `json:"radius"`
	Reason string  `json:"reason"`
}

type ReportAbuseRequest struct {
	Reason  string  `json:"reason"`
	Details *string `json:"details,omitempty"`
}

type AuthorSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	UserType  string  `json:"user_type"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
}

type ReportListItem struct {
	models.Report
	CommentCount int64         `json:"comment_count"`
	Author       AuthorSummary `json:"author"`
}

type ReportDetail struct {
	models.Report
	Author   AuthorSummary `json:"author"`
	Comments []CommentView `json:"comments"`
}

type CommentView struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Location   *string   `json:"location,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
