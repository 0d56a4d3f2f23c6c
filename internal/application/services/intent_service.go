package services

import (
	"strings"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// Markers holds the phrase predicates that drive cache bypass and intent
// detection. They are data, not inline literals, so markets can extend or
// localize them without touching retrieval logic.
type Markers struct {
	TimeSensitive []string
	HappyHours    []string
	Events        []string
	Specials      []string
	Menu          []string
	Hours         []string
	Contact       []string
	Votes         []string
	Brunch        []string
	Dinner        []string
	Bars          []string
}

// DefaultMarkers returns the built-in English phrase set
func DefaultMarkers() Markers {
	return Markers{
		TimeSensitive: []string{
			"tonight", "today", "this evening", "right now", "open now",
			"happy hour", "this week", "this weekend", "tomorrow", "later",
		},
		HappyHours: []string{"happy hour", "drink special", "drink deal", "cheap drinks"},
		Events:     []string{"event", "live music", "show", "trivia", "karaoke", "happening", "going on"},
		Specials:   []string{"special", "deal", "discount", "promo"},
		Menu:       []string{"menu", "food", "eat", "dish", "appetizer", "entree", "taco", "pizza", "burger"},
		Hours:      []string{"hours", "open", "close", "when do", "what time"},
		Contact:    []string{"phone", "call", "contact", "website", "reservation", "address"},
		Votes:      []string{"best", "favorite", "top rated", "most popular", "voted"},
		Brunch:     []string{"brunch", "mimosa", "bloody mary"},
		Dinner:     []string{"dinner", "date night", "dinner spot"},
		Bars:       []string{"bar", "bars", "cocktail", "nightlife", "drinks", "dive"},
	}
}

var weekdayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// IntentService derives a QueryIntent from raw question text. All date
// resolution happens in the configured business timezone, never the host's.
type IntentService struct {
	markers  Markers
	location *time.Location
}

// NewIntentService creates an intent service for a business timezone
func NewIntentService(markers Markers, timezone string) (*IntentService, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &IntentService{
		markers:  markers,
		location: loc,
	}, nil
}

// NowLocal returns the current time in the business timezone
func (s *IntentService) NowLocal() time.Time {
	return time.Now().In(s.location)
}

// IsTimeSensitive reports whether the question carries a time-sensitivity
// marker, which forces a cache bypass.
func (s *IntentService) IsTimeSensitive(question string) bool {
	return containsAny(question, s.markers.TimeSensitive)
}

// Derive builds the QueryIntent for a question as of now
func (s *IntentService) Derive(question string) entities.QueryIntent {
	return s.deriveAt(question, s.NowLocal())
}

func (s *IntentService) deriveAt(question string, now time.Time) entities.QueryIntent {
	q := strings.ToLower(question)

	intent := entities.QueryIntent{
		WantsHappyHours: containsAny(q, s.markers.HappyHours),
		WantsEvents:     containsAny(q, s.markers.Events),
		WantsSpecials:   containsAny(q, s.markers.Specials),
		WantsMenu:       containsAny(q, s.markers.Menu),
		WantsHours:      containsAny(q, s.markers.Hours),
		WantsContact:    containsAny(q, s.markers.Contact),
		WantsVotes:      containsAny(q, s.markers.Votes),
		WantsBrunch:     containsAny(q, s.markers.Brunch),
		WantsDinner:     containsAny(q, s.markers.Dinner),
		WantsBars:       containsAny(q, s.markers.Bars),
		TimeSensitive:   containsAny(q, s.markers.TimeSensitive),
	}

	today := strings.ToLower(now.Weekday().String())
	intent.TargetWeekday = today
	for _, name := range weekdayNames {
		if strings.Contains(q, name) {
			intent.TargetWeekday = name
			break
		}
	}

	intent.TargetDate = nextOccurrence(now, intent.TargetWeekday)
	return intent
}

// nextOccurrence resolves the next calendar date for a weekday name on or
// after today. Same-day questions resolve to today, never a past date.
func nextOccurrence(now time.Time, weekday string) time.Time {
	todayIndex := int(now.Weekday())
	targetIndex := todayIndex
	for i, name := range weekdayNames {
		if name == weekday {
			targetIndex = i
			break
		}
	}
	days := (targetIndex - todayIndex + 7) % 7
	date := now.AddDate(0, 0, days)
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

func containsAny(text string, phrases []string) bool {
	q := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}
