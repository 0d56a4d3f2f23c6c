package entities

import (
	"time"
)

// Venue represents a bar, restaurant, or event space in a market
type Venue struct {
	ID             string      `json:"id" db:"id"`
	Market         string      `json:"market" db:"market"`
	Name           string      `json:"name" db:"name"`
	Neighborhood   string      `json:"neighborhood,omitempty" db:"neighborhood"`
	Address        string      `json:"address" db:"address"`
	PhoneNumber    string      `json:"phone_number,omitempty" db:"phone_number"`
	Website        string      `json:"website,omitempty" db:"website"`
	Cuisine        string      `json:"cuisine,omitempty" db:"cuisine"`
	PriceRange     string      `json:"price_range,omitempty" db:"price_range"`
	Rating         float64     `json:"rating" db:"rating"`
	Tags           []string    `json:"tags,omitempty" db:"-"`
	VibeTags       []string    `json:"vibe_tags,omitempty" db:"-"`
	SignatureItems []string    `json:"signature_items,omitempty" db:"-"`
	Hours          WeeklyHours `json:"hours,omitempty" db:"-"`
	IsActive       bool        `json:"is_active" db:"is_active"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// DayHours holds open and close times as 24h "15:04" strings
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklyHours maps lowercase weekday names to opening hours.
// A missing weekday means the venue is closed that day.
type WeeklyHours map[string]DayHours

// For returns the hours for a lowercase weekday name
func (h WeeklyHours) For(weekday string) (DayHours, bool) {
	day, ok := h[weekday]
	return day, ok
}
