package models

import (
	"fmt"
	"strings"
	"time"
)

// ServiceRequest is a seeker's booking of a provider. Joined columns are
// filled depending on which side lists it.
type ServiceRequest struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	ProviderID  int64      `db:"provider_id" json:"provider_id"`
	Details     *string    `db:"details" json:"details"`
	Status      Status     `db:"status" json:"status"`
	BookingDate *time.Time `db:"booking_date" json:"booking_date"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	ProviderName     string `db:"provider_name" json:"provider_name,omitempty"`
	ProviderCategory string `db:"provider_category" json:"provider_category,omitempty"`
	CustomerName     string `db:"customer_name" json:"customer_name,omitempty"`
	CustomerPhone    string `db:"customer_phone" json:"customer_phone,omitempty"`
}

// SummaryStats are the raw aggregates behind a provider dashboard.
// AverageRating is nil when the provider has no reviews.
type SummaryStats struct {
	TotalRequests     int64    `db:"total_requests"`
	CompletedRequests int64    `db:"completed_requests"`
	AverageRating     *float64 `db:"average_rating"`
	TotalReviews      int64    `db:"total_reviews"`
}

type ProviderSummary struct {
	TotalRequests     int64  `json:"totalRequests"`
	CompletedRequests int64  `json:"completedRequests"`
	AverageRating     string `json:"averageRating"`
	TotalReviews      int64  `json:"totalReviews"`
}

// Summary formats the stats; a missing average reads "0.0".
func (s SummaryStats) Summary() ProviderSummary {
	avg := "0.0"
	if s.AverageRating != nil {
		avg = fmt.Sprintf("%.1f", *s.AverageRating)
	}
	return ProviderSummary{
		TotalRequests:     s.TotalRequests,
		CompletedRequests: s.CompletedRequests,
		AverageRating:     avg,
		TotalReviews:      s.TotalReviews,
	}
}

// BookingInput is a seeker's new request. ServiceID names the provider.
type BookingInput struct {
	ServiceID   int64  `json:"service_id" validate:"required,gt=0"`
	Details     string `json:"details"`
	BookingDate string `json:"booking_date"`
}

var bookingDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"}

// ParseBookingDate accepts RFC 3339, datetime-local and plain dates.
// A blank value yields nil.
func ParseBookingDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range bookingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid booking_date %q", raw)
}
