package entities

import (
	"fmt"
	"time"
)

// OfferKind distinguishes the categories of time-windowed venue offers
type OfferKind string

const (
	OfferKindHappyHour OfferKind = "happy_hour"
	OfferKindSpecial   OfferKind = "special"
	OfferKindEvent     OfferKind = "event"
)

// TimeWindowRecord is a venue offer bound to a time window. It is either
// recurring (Weekdays non-empty) or date-specific (StartDate set).
type TimeWindowRecord struct {
	ID          string     `json:"id" db:"id"`
	VenueID     string     `json:"venue_id" db:"venue_id"`
	VenueName   string     `json:"venue_name" db:"venue_name"`
	Market      string     `json:"market" db:"market"`
	Kind        OfferKind  `json:"kind" db:"kind"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Weekdays    []string   `json:"weekdays,omitempty" db:"-"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	StartTime   string     `json:"start_time,omitempty" db:"start_time"`
	EndTime     string     `json:"end_time,omitempty" db:"end_time"`
	DealText    string     `json:"deal_text,omitempty" db:"deal_text"`
}

// IsRecurring reports whether the offer repeats on fixed weekdays
func (r *TimeWindowRecord) IsRecurring() bool {
	return len(r.Weekdays) > 0
}

// TimeRange renders the clock window as human-readable text, e.g. "4:00 PM - 6:30 PM"
func (r *TimeWindowRecord) TimeRange() string {
	start := formatClock(r.StartTime)
	end := formatClock(r.EndTime)
	switch {
	case start != "" && end != "":
		return fmt.Sprintf("%s - %s", start, end)
	case start != "":
		return "from " + start
	case end != "":
		return "until " + end
	default:
		return ""
	}
}

func formatClock(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}
