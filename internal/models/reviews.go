package models

import (
	"time"
)

type Review struct {
	ID         int64     `db:"id" json:"id"`
	RequestID  *int64    `db:"request_id" json:"request_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ProviderID int64     `db:"provider_id" json:"provider_id"`
	Review     string    `db:"review" json:"review"`
	Rating     int       `db:"rating" json:"rating" validate:"min=1,max=5"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	Username       string  `db:"username" json:"username,omitempty"`
	ProviderName   string  `db:"provider_name" json:"provider_name,omitempty"`
	Category       string  `db:"category" json:"category,omitempty"`
	RequestDetails *string `db:"request_details" json:"request_details,omitempty"`
}

type ReviewInput struct {
	RequestID int64  `json:"request_id" validate:"required,gt=0"`
	Review    string `json:"review"`
	Rating    int    `json:"rating"`
}
