package dto

import "time"

type CreateInviteRequest struct {
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	ExpiresInDays int     `json:"expires_in_days,omitempty"`
	Message       *string `json:"message,omitempty"`
}

type CreateInviteResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AcceptInviteRequest struct {
	Token     string  `json:"token"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Phone     *string `json:"phone,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
}
