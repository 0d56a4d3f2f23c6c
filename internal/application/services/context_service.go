package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
	"github.com/zatekoja/citypulse-concierge/internal/domain/repositories"
	"github.com/zatekoja/citypulse-concierge/internal/infrastructure/observability"
)

const (
	directoryLimit = 25
	searchLimit    = 8
	tagLimit       = 10
	menuLimit      = 30
	voteLimit      = 10
)

// stop words stripped from the first clause before venue name search
var nameSearchStopWords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "any": {}, "are": {}, "at": {},
	"best": {}, "can": {}, "do": {}, "does": {}, "find": {}, "for": {},
	"get": {}, "good": {}, "great": {}, "happening": {}, "how": {}, "i": {},
	"in": {}, "is": {}, "me": {}, "near": {}, "of": {}, "on": {}, "place": {},
	"places": {}, "tell": {}, "the": {}, "there": {}, "to": {}, "today": {},
	"tonight": {}, "what": {}, "whats": {}, "what's": {}, "when": {},
	"where": {}, "which": {}, "who": {}, "why": {},
}

// RetrievedContext is the union of raw fan-out results keyed by source.
// Branch failures leave their slice empty and are recorded in BranchErrors.
type RetrievedContext struct {
	Intent entities.QueryIntent
	Now    time.Time

	Directory   []*entities.Venue
	NameMatches []*entities.Venue

	RecurringOffers []*entities.TimeWindowRecord
	DatedOffers     []*entities.TimeWindowRecord

	MenuItems []*entities.MenuItem
	Votes     []*entities.VoteTally

	BrunchVenues []*entities.Venue
	DinnerVenues []*entities.Venue
	BarVenues    []*entities.Venue

	BranchErrors map[string]error
}

// ContextService assembles the factual grounding for an answer by fanning
// out queries against the domain data source. Branches run concurrently and
// independently; one failure never aborts the others.
type ContextService struct {
	venues        repositories.VenueRepository
	offers        repositories.OfferRepository
	menu          repositories.MenuRepository
	votes         repositories.VoteRepository
	intents       *IntentService
	branchTimeout time.Duration
}

// NewContextService creates a new context retrieval service
func NewContextService(
	venues repositories.VenueRepository,
	offers repositories.OfferRepository,
	menu repositories.MenuRepository,
	votes repositories.VoteRepository,
	intents *IntentService,
	branchTimeout time.Duration,
) *ContextService {
	if branchTimeout <= 0 {
		branchTimeout = 10 * time.Second
	}
	return &ContextService{
		venues:        venues,
		offers:        offers,
		menu:          menu,
		votes:         votes,
		intents:       intents,
		branchTimeout: branchTimeout,
	}
}

// Build runs the fan-out retrieval for a question and market
func (s *ContextService) Build(ctx context.Context, question, market string) *RetrievedContext {
	rc := &RetrievedContext{
		Intent:       s.intents.Derive(question),
		Now:          s.intents.NowLocal(),
		BranchErrors: make(map[string]error),
	}
	s.build(ctx, question, market, rc)
	return rc
}

func (s *ContextService) build(ctx context.Context, question, market string, rc *RetrievedContext) {
	logger := observability.LoggerFromContext(ctx)

	var wg sync.WaitGroup
	var mu sync.Mutex

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			branchCtx, cancel := context.WithTimeout(ctx, s.branchTimeout)
			defer cancel()
			if err := fn(branchCtx); err != nil {
				mu.Lock()
				rc.BranchErrors[name] = err
				mu.Unlock()
				logger.Warn().Err(err).Str("branch", name).Msg("context retrieval branch failed")
			}
		}()
	}

	run("directory", func(c context.Context) error {
		venues, err := s.venues.List(c, market, directoryLimit)
		rc.Directory = venues
		return err
	})

	run("name_search", func(c context.Context) error {
		venues, err := s.searchByQuestion(c, market, question)
		rc.NameMatches = venues
		return err
	})

	run("recurring_offers", func(c context.Context) error {
		var all []*entities.TimeWindowRecord
		for _, kind := range []entities.OfferKind{entities.OfferKindHappyHour, entities.OfferKindEvent, entities.OfferKindSpecial} {
			offers, err := s.offers.ListRecurringByWeekday(c, market, kind, rc.Intent.TargetWeekday)
			if err != nil {
				return err
			}
			all = append(all, offers...)
		}
		rc.RecurringOffers = all
		return nil
	})

	run("dated_offers", func(c context.Context) error {
		var all []*entities.TimeWindowRecord
		for _, kind := range []entities.OfferKind{entities.OfferKindEvent, entities.OfferKindSpecial} {
			offers, err := s.offers.ListByDate(c, market, kind, rc.Intent.TargetDate)
			if err != nil {
				return err
			}
			all = append(all, offers...)
		}
		rc.DatedOffers = all
		return nil
	})

	if rc.Intent.WantsMenu {
		run("menu", func(c context.Context) error {
			items, err := s.menu.ListByMarket(c, market, menuLimit)
			rc.MenuItems = items
			return err
		})
	}

	if rc.Intent.WantsVotes {
		run("votes", func(c context.Context) error {
			tallies, err := s.votes.TopForMonth(c, market, rc.Now.Format("2006-01"), voteLimit)
			rc.Votes = tallies
			return err
		})
	}

	if rc.Intent.WantsBrunch {
		run("brunch_venues", func(c context.Context) error {
			venues, err := s.venues.ListByTag(c, market, "brunch", tagLimit)
			rc.BrunchVenues = venues
			return err
		})
	}

	if rc.Intent.WantsDinner {
		run("dinner_venues", func(c context.Context) error {
			venues, err := s.venues.ListByTag(c, market, "dinner", tagLimit)
			rc.DinnerVenues = venues
			return err
		})
	}

	if rc.Intent.WantsBars {
		run("bar_venues", func(c context.Context) error {
			venues, err := s.venues.ListByTag(c, market, "bar", tagLimit)
			rc.BarVenues = venues
			return err
		})
	}

	wg.Wait()
}

// searchByQuestion runs the two-phase name search: the stripped first clause
// of the question, then just its first significant word. The fallback catches
// multi-word venue names when the user supplies a partial name.
func (s *ContextService) searchByQuestion(ctx context.Context, market, question string) ([]*entities.Venue, error) {
	phrase, firstWord := extractNamePhrase(question)
	if phrase == "" {
		return []*entities.Venue{}, nil
	}

	matches, err := s.venues.SearchByName(ctx, market, phrase, searchLimit)
	if err != nil {
		return nil, err
	}

	if firstWord != "" && firstWord != phrase {
		fallback, err := s.venues.SearchByName(ctx, market, firstWord, searchLimit)
		if err != nil {
			return nil, err
		}
		matches = mergeVenues(matches, fallback)
	}
	return matches, nil
}

// extractNamePhrase takes the first clause of the question, strips stop words
// and punctuation, and returns the remaining phrase plus its first word.
func extractNamePhrase(question string) (string, string) {
	clause := strings.ToLower(question)
	if idx := strings.IndexAny(clause, ",.?!;"); idx >= 0 {
		clause = clause[:idx]
	}

	var kept []string
	for _, word := range strings.Fields(clause) {
		word = strings.Trim(word, "'\"")
		if word == "" {
			continue
		}
		if _, skip := nameSearchStopWords[word]; skip {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return "", ""
	}
	return strings.Join(kept, " "), kept[0]
}

// mergeVenues appends extras to base, dropping duplicates by venue id.
// First occurrence wins.
func mergeVenues(base, extras []*entities.Venue) []*entities.Venue {
	seen := make(map[string]struct{}, len(base))
	merged := make([]*entities.Venue, 0, len(base)+len(extras))
	for _, v := range base {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		merged = append(merged, v)
	}
	for _, v := range extras {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		merged = append(merged, v)
	}
	return merged
}
