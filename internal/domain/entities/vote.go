package entities

// VoteTally aggregates community votes for a venue within one month
type VoteTally struct {
	VenueID   string `json:"venue_id" db:"venue_id"`
	VenueName string `json:"venue_name" db:"venue_name"`
	Month     string `json:"month" db:"month"` // "2026-08"
	Votes     int    `json:"votes" db:"votes"`
}
