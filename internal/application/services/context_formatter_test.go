package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

func wednesdayContext() *RetrievedContext {
	loc, _ := time.LoadLocation("America/Chicago")
	return &RetrievedContext{
		Intent: entities.QueryIntent{
			TargetWeekday: "wednesday",
			TargetDate:    time.Date(2026, time.August, 26, 0, 0, 0, 0, loc),
		},
		Now:          time.Date(2026, time.August, 26, 19, 0, 0, 0, loc),
		BranchErrors: map[string]error{},
	}
}

func TestContextFormatter_OfferDedupeAcrossSources(t *testing.T) {
	f := NewContextFormatter()
	rc := wednesdayContext()
	rc.Intent.WantsHappyHours = true

	shared := &entities.TimeWindowRecord{
		ID: "hh-1", VenueName: "Whisler's", Kind: entities.OfferKindHappyHour,
		Title: "Happy Hour", Weekdays: []string{"wednesday"}, StartTime: "16:00", EndTime: "19:00",
	}
	rc.RecurringOffers = []*entities.TimeWindowRecord{shared}
	rc.DatedOffers = []*entities.TimeWindowRecord{shared}

	out := f.Format(rc)

	assert.Equal(t, 1, strings.Count(out, "Whisler's: Happy Hour"), "a record in both sources renders once")
	assert.Contains(t, out, "4:00 PM - 7:00 PM")
}

func TestContextFormatter_NameMatchesRankFirst(t *testing.T) {
	f := NewContextFormatter()
	rc := wednesdayContext()
	rc.NameMatches = []*entities.Venue{{ID: "v-2", Name: "Odd Duck"}}
	rc.Directory = []*entities.Venue{
		{ID: "v-1", Name: "Launderette"},
		{ID: "v-2", Name: "Odd Duck"},
	}

	out := f.Format(rc)

	oddIdx := strings.Index(out, "Odd Duck")
	laundIdx := strings.Index(out, "Launderette")
	require.GreaterOrEqual(t, oddIdx, 0)
	require.GreaterOrEqual(t, laundIdx, 0)
	assert.Less(t, oddIdx, laundIdx, "name matches render before the directory")
	assert.Equal(t, 1, strings.Count(out, "Odd Duck"), "a venue in both lists renders once")
}

func TestContextFormatter_NoneFoundOnlyWhenFlagged(t *testing.T) {
	f := NewContextFormatter()

	t.Run("flagged but empty sections say so", func(t *testing.T) {
		rc := wednesdayContext()
		rc.Intent.WantsEvents = true
		rc.Intent.WantsBrunch = true

		out := f.Format(rc)

		assert.Contains(t, out, "## Events for Wednesday Aug 26")
		assert.Contains(t, out, "## Brunch spots")
		assert.Equal(t, 2, strings.Count(out, "- none found"))
	})

	t.Run("unflagged empty sections are omitted", func(t *testing.T) {
		rc := wednesdayContext()

		out := f.Format(rc)

		assert.Empty(t, out)
	})
}

func TestContextFormatter_RichVsCompactRendering(t *testing.T) {
	f := NewContextFormatter()
	venue := func(i int) *entities.Venue {
		return &entities.Venue{
			ID:           fmt.Sprintf("v-%d", i),
			Name:         fmt.Sprintf("Venue %d", i),
			Neighborhood: "East Side",
			Rating:       4.5,
			Hours:        entities.WeeklyHours{"wednesday": {Open: "11:00", Close: "22:00"}},
		}
	}

	t.Run("small directory renders rich", func(t *testing.T) {
		rc := wednesdayContext()
		rc.Directory = []*entities.Venue{venue(1), venue(2)}

		out := f.Format(rc)

		assert.Contains(t, out, "East Side")
		assert.Contains(t, out, "rated 4.5")
		assert.Contains(t, out, "wednesday hours: 11:00-22:00")
	})

	t.Run("large directory renders compact", func(t *testing.T) {
		rc := wednesdayContext()
		for i := 0; i < richThreshold+1; i++ {
			rc.Directory = append(rc.Directory, venue(i))
		}

		out := f.Format(rc)

		assert.NotContains(t, out, "East Side")
		assert.NotContains(t, out, "rated")
	})

	t.Run("name match forces rich even in a large set", func(t *testing.T) {
		rc := wednesdayContext()
		rc.NameMatches = []*entities.Venue{venue(0)}
		for i := 1; i <= richThreshold+2; i++ {
			rc.Directory = append(rc.Directory, venue(i))
		}

		out := f.Format(rc)

		assert.Contains(t, out, "East Side")
	})
}

func TestContextFormatter_OffersOrderByClockNotLexically(t *testing.T) {
	f := NewContextFormatter()
	rc := wednesdayContext()
	rc.RecurringOffers = []*entities.TimeWindowRecord{
		{ID: "hh-1", VenueName: "Late Spot", Kind: entities.OfferKindHappyHour, Title: "Night Deal",
			Weekdays: []string{"wednesday"}, StartTime: "10:00", EndTime: "12:00"},
		{ID: "hh-2", VenueName: "Early Spot", Kind: entities.OfferKindHappyHour, Title: "Morning Deal",
			Weekdays: []string{"wednesday"}, StartTime: "9:00", EndTime: "11:00"},
	}

	out := f.Format(rc)

	earlyIdx := strings.Index(out, "Early Spot")
	lateIdx := strings.Index(out, "Late Spot")
	require.GreaterOrEqual(t, earlyIdx, 0)
	require.GreaterOrEqual(t, lateIdx, 0)
	assert.Less(t, earlyIdx, lateIdx, "an unpadded 9:00 start must sort before 10:00")
}

func TestContextFormatter_SectionCap(t *testing.T) {
	f := NewContextFormatter()
	rc := wednesdayContext()
	for i := 0; i < sectionCap+5; i++ {
		rc.RecurringOffers = append(rc.RecurringOffers, &entities.TimeWindowRecord{
			ID:        fmt.Sprintf("hh-%d", i),
			VenueName: "Somewhere",
			Kind:      entities.OfferKindHappyHour,
			Title:     fmt.Sprintf("Deal %d", i),
			Weekdays:  []string{"wednesday"},
		})
	}

	out := f.Format(rc)

	assert.Equal(t, sectionCap, strings.Count(out, "- Somewhere:"))
}

func TestContextFormatter_ContactIntentAddsWebsiteAndWeeklyHours(t *testing.T) {
	f := NewContextFormatter()
	rc := wednesdayContext()
	rc.Intent.WantsContact = true
	rc.NameMatches = []*entities.Venue{{
		ID:      "v-1",
		Name:    "Odd Duck",
		Website: "https://oddduckaustin.com",
		Hours: entities.WeeklyHours{
			"monday":    {Open: "17:00", Close: "22:00"},
			"wednesday": {Open: "17:00", Close: "22:00"},
		},
	}}

	out := f.Format(rc)

	assert.Contains(t, out, "website: https://oddduckaustin.com")
	assert.Contains(t, out, "weekly hours:")
	assert.Contains(t, out, "mon 17:00-22:00")
}

func TestContextFormatter_DatedOfferShowsDate(t *testing.T) {
	f := NewContextFormatter()
	rc := wednesdayContext()
	date := rc.Intent.TargetDate
	rc.DatedOffers = []*entities.TimeWindowRecord{{
		ID: "ev-1", VenueName: "Continental Club", Kind: entities.OfferKindEvent,
		Title: "Album release show", StartDate: &date, StartTime: "21:00",
	}}

	out := f.Format(rc)

	assert.Contains(t, out, "Continental Club: Album release show (from 9:00 PM) on Aug 26")
}
