package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	DefaultServiceName  = "General Services"
	DefaultServicePrice = 0.00
)

// Coordinates is a WGS84 point resolved from a free-text location.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type ServiceProvider struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Description *string   `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Location    *string   `db:"location" json:"location"`
	Lat         *float64  `db:"lat" json:"lat"`
	Lon         *float64  `db:"lon" json:"lon"`
	Image       *string   `db:"image" json:"image"`
	Rating      float64   `db:"rating" json:"rating"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	DistanceKM *float64  `db:"distance_km" json:"distance_km,omitempty"`
	Services   []Service `db:"-" json:"services,omitempty"`
}

type Service struct {
	ID         int64   `db:"id" json:"id"`
	ProviderID int64   `db:"provider_id" json:"provider_id"`
	Name       string  `db:"name" json:"name"`
	Price      float64 `db:"price" json:"price"`
}

// ProviderInput is the profile creation form. Price arrives as text from
// multipart forms or as a JSON number and is parsed by ParsePrice.
type ProviderInput struct {
	Name        string      `form:"name" json:"name"`
	Category    string      `form:"category" json:"category"`
	PhoneNumber string      `form:"phone_number" json:"phone_number"`
	Description string      `form:"description" json:"description"`
	Price       json.Number `form:"price" json:"price"`
	Location    string      `form:"location" json:"location"`
}

// Missing lists the required fields that are blank, in form order.
func (in ProviderInput) Missing() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"category", in.Category},
		{"phone_number", in.PhoneNumber},
		{"price", string(in.Price)},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ParsePrice parses a non-negative decimal price.
func ParsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || price < 0 {
		return 0, fmt.Errorf("price must be a non-negative number")
	}
	return price, nil
}

// ProviderUpdate is a partial profile change. A nil field is left unchanged;
// blank strings count as absent.
type ProviderUpdate struct {
	Name        *string
	Category    *string
	PhoneNumber *string
	Description *string
	Price       *float64
	Location    *string
	Image       *string

	// Geo is consulted only when Location is set; nil clears lat/lon.
	Geo *Coordinates
}

// HasLocation reports whether the update carries a non-blank location.
func (u ProviderUpdate) HasLocation() bool {
	return u.Location != nil && strings.TrimSpace(*u.Location) != ""
}

// Record returns the columns to set, walking the fixed field list.
func (u ProviderUpdate) Record() goqu.Record {
	rec := goqu.Record{}
	fields := []struct {
		column string
		value  *string
	}{
		{"name", u.Name},
		{"category", u.Category},
		{"phone_number", u.PhoneNumber},
		{"description", u.Description},
		{"location", u.Location},
		{"image", u.Image},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if v := strings.TrimSpace(*f.value); v != "" {
			rec[f.column] = v
		}
	}
	if u.Price != nil {
		rec["price"] = *u.Price
	}
	if u.HasLocation() {
		if u.Geo != nil {
			rec["lat"] = u.Geo.Latitude
			rec["lon"] = u.Geo.Longitude
		} else {
			rec["lat"] = nil
			rec["lon"] = nil
		}
	}
	return rec
}

func (u ProviderUpdate) IsEmpty() bool {
	return len(u.Record()) == 0
}

// ProviderFilter narrows catalog listings. Near orders results by distance.
type ProviderFilter struct {
	Category  string
	MinRating float64
	Near      *Coordinates
}
