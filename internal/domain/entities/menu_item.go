package entities

// MenuItem represents a single menu entry for a venue
type MenuItem struct {
	ID          string  `json:"id" db:"id"`
	VenueID     string  `json:"venue_id" db:"venue_id"`
	VenueName   string  `json:"venue_name" db:"venue_name"`
	Name        string  `json:"name" db:"name"`
	Category    string  `json:"category,omitempty" db:"category"`
	Price       float64 `json:"price" db:"price"`
	IsSignature bool    `json:"is_signature" db:"is_signature"`
}
