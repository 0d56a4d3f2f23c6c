package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

const (
	sectionCap    = 12
	richThreshold = 8
)

// ContextFormatter renders retrieved records into the bounded text block
// passed to the completion step as grounding.
type ContextFormatter struct{}

// NewContextFormatter creates a new context formatter
func NewContextFormatter() *ContextFormatter {
	return &ContextFormatter{}
}

// Format produces the ordered context block for a retrieval result
func (f *ContextFormatter) Format(rc *RetrievedContext) string {
	intent := rc.Intent

	venues := mergeVenues(rc.NameMatches, rc.Directory)
	nameTargeted := len(rc.NameMatches) > 0
	rich := nameTargeted || len(venues) <= richThreshold

	happyHours := mergeOffers(filterOffers(rc.RecurringOffers, entities.OfferKindHappyHour), filterOffers(rc.DatedOffers, entities.OfferKindHappyHour))
	events := mergeOffers(filterOffers(rc.RecurringOffers, entities.OfferKindEvent), filterOffers(rc.DatedOffers, entities.OfferKindEvent))
	specials := mergeOffers(filterOffers(rc.RecurringOffers, entities.OfferKindSpecial), filterOffers(rc.DatedOffers, entities.OfferKindSpecial))

	var b strings.Builder

	f.venueSection(&b, venues, intent, rich)
	f.offerSection(&b, "Happy hours", happyHours, intent.WantsHappyHours)
	f.offerSection(&b, fmt.Sprintf("Events for %s %s", titleWeekday(intent.TargetWeekday), intent.TargetDate.Format("Jan 2")), events, intent.WantsEvents)
	f.offerSection(&b, "Specials", specials, intent.WantsSpecials)
	f.menuSection(&b, rc.MenuItems, intent.WantsMenu)
	f.voteSection(&b, rc.Votes, intent.WantsVotes)
	f.tagSections(&b, rc, intent)

	return strings.TrimSpace(b.String())
}

func (f *ContextFormatter) venueSection(b *strings.Builder, venues []*entities.Venue, intent entities.QueryIntent, rich bool) {
	if len(venues) == 0 {
		return
	}
	writeHeader(b, "Venues")
	for i, v := range venues {
		if i >= sectionCap {
			break
		}
		if rich {
			b.WriteString(f.renderVenueRich(v, intent))
		} else {
			b.WriteString(f.renderVenueCompact(v))
		}
	}
}

func (f *ContextFormatter) renderVenueCompact(v *entities.Venue) string {
	line := fmt.Sprintf("- [%s] %s", v.ID, v.Name)
	if v.Cuisine != "" {
		line += fmt.Sprintf(" (%s", v.Cuisine)
		if v.PriceRange != "" {
			line += ", " + v.PriceRange
		}
		line += ")"
	}
	if v.Address != "" {
		line += " | " + v.Address
	}
	if v.PhoneNumber != "" {
		line += " | " + v.PhoneNumber
	}
	return line + "\n"
}

func (f *ContextFormatter) renderVenueRich(v *entities.Venue, intent entities.QueryIntent) string {
	var b strings.Builder
	b.WriteString(f.renderVenueCompact(v))

	var details []string
	if v.Neighborhood != "" {
		details = append(details, v.Neighborhood)
	}
	if v.Rating > 0 {
		details = append(details, fmt.Sprintf("rated %.1f", v.Rating))
	}
	if len(v.SignatureItems) > 0 {
		details = append(details, "known for "+strings.Join(v.SignatureItems, ", "))
	}
	if len(v.VibeTags) > 0 {
		details = append(details, "vibe: "+strings.Join(v.VibeTags, ", "))
	}
	if len(details) > 0 {
		b.WriteString("  " + strings.Join(details, "; ") + "\n")
	}

	if hours, ok := v.Hours.For(intent.TargetWeekday); ok {
		b.WriteString(fmt.Sprintf("  %s hours: %s-%s\n", intent.TargetWeekday, hours.Open, hours.Close))
	}
	if intent.WantsHours || intent.WantsContact {
		b.WriteString(f.renderWeeklyHours(v.Hours))
		if v.Website != "" {
			b.WriteString("  website: " + v.Website + "\n")
		}
	}
	return b.String()
}

func (f *ContextFormatter) renderWeeklyHours(hours entities.WeeklyHours) string {
	if len(hours) == 0 {
		return ""
	}
	var parts []string
	for _, day := range weekdayNames {
		if h, ok := hours.For(day); ok {
			parts = append(parts, fmt.Sprintf("%s %s-%s", day[:3], h.Open, h.Close))
		}
	}
	return "  weekly hours: " + strings.Join(parts, ", ") + "\n"
}

func (f *ContextFormatter) offerSection(b *strings.Builder, title string, offers []*entities.TimeWindowRecord, flagged bool) {
	if len(offers) == 0 && !flagged {
		return
	}
	writeHeader(b, title)
	if len(offers) == 0 {
		b.WriteString("- none found\n")
		return
	}
	for i, o := range offers {
		if i >= sectionCap {
			break
		}
		line := fmt.Sprintf("- %s: %s", o.VenueName, o.Title)
		if tr := o.TimeRange(); tr != "" {
			line += " (" + tr + ")"
		}
		if o.DealText != "" {
			line += " - " + o.DealText
		}
		if !o.IsRecurring() && o.StartDate != nil {
			line += " on " + o.StartDate.Format("Jan 2")
		}
		b.WriteString(line + "\n")
	}
}

func (f *ContextFormatter) menuSection(b *strings.Builder, items []*entities.MenuItem, flagged bool) {
	if len(items) == 0 && !flagged {
		return
	}
	writeHeader(b, "Menu items")
	if len(items) == 0 {
		b.WriteString("- none found\n")
		return
	}
	for i, item := range items {
		if i >= sectionCap {
			break
		}
		line := fmt.Sprintf("- %s: %s ($%.2f)", item.VenueName, item.Name, item.Price)
		if item.IsSignature {
			line += " [signature]"
		}
		b.WriteString(line + "\n")
	}
}

func (f *ContextFormatter) voteSection(b *strings.Builder, votes []*entities.VoteTally, flagged bool) {
	if len(votes) == 0 && !flagged {
		return
	}
	writeHeader(b, "Community votes this month")
	if len(votes) == 0 {
		b.WriteString("- none found\n")
		return
	}
	for i, v := range votes {
		if i >= sectionCap {
			break
		}
		b.WriteString(fmt.Sprintf("- %s: %d votes\n", v.VenueName, v.Votes))
	}
}

func (f *ContextFormatter) tagSections(b *strings.Builder, rc *RetrievedContext, intent entities.QueryIntent) {
	type tagged struct {
		title   string
		venues  []*entities.Venue
		flagged bool
	}
	for _, section := range []tagged{
		{"Brunch spots", rc.BrunchVenues, intent.WantsBrunch},
		{"Dinner spots", rc.DinnerVenues, intent.WantsDinner},
		{"Bars", rc.BarVenues, intent.WantsBars},
	} {
		if len(section.venues) == 0 && !section.flagged {
			continue
		}
		writeHeader(b, section.title)
		if len(section.venues) == 0 {
			b.WriteString("- none found\n")
			continue
		}
		for i, v := range section.venues {
			if i >= sectionCap {
				break
			}
			b.WriteString(f.renderVenueCompact(v))
		}
	}
}

func titleWeekday(weekday string) string {
	if weekday == "" {
		return weekday
	}
	return strings.ToUpper(weekday[:1]) + weekday[1:]
}

func writeHeader(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("## " + title + "\n")
}

func filterOffers(offers []*entities.TimeWindowRecord, kind entities.OfferKind) []*entities.TimeWindowRecord {
	var out []*entities.TimeWindowRecord
	for _, o := range offers {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// mergeOffers combines recurring and date-specific results for one category,
// deduplicating by record id. A record present in both sources counts once.
func mergeOffers(recurring, dated []*entities.TimeWindowRecord) []*entities.TimeWindowRecord {
	seen := make(map[string]struct{}, len(recurring))
	merged := make([]*entities.TimeWindowRecord, 0, len(recurring)+len(dated))
	for _, o := range append(append([]*entities.TimeWindowRecord{}, recurring...), dated...) {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		merged = append(merged, o)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return clockMinutes(merged[i].StartTime) < clockMinutes(merged[j].StartTime)
	})
	return merged
}

// clockMinutes orders "15:04" clock strings numerically, so "9:00" sorts
// before "10:00". Unparseable values sort last.
func clockMinutes(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 24 * 60
	}
	return t.Hour()*60 + t.Minute()
}
