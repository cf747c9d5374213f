package dto

import "time"

type VerificationDecisionRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type VerificationQueueEntry struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	City        *string   `json:"city,omitempty"`
	State       *string   `json:"state,omitempty"`
	UserType    string    `json:"user_type"`
	Notes       *string   `json:"notes,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
