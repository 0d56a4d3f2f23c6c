package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// --- answer cache mock ---

type mockAnswerCacheRepo struct {
	mu       sync.Mutex
	nearest  *entities.AnswerCacheEntry
	nearSim  float64
	findErr  error
	inserted []*entities.AnswerCacheEntry
	touched  []string
	findCnt  int
}

func (m *mockAnswerCacheRepo) FindNearest(ctx context.Context, embedding []float32, threshold float64) (*entities.AnswerCacheEntry, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCnt++
	if m.findErr != nil {
		return nil, 0, m.findErr
	}
	if m.nearest == nil || m.nearSim < threshold {
		return nil, 0, nil
	}
	return m.nearest, m.nearSim, nil
}

func (m *mockAnswerCacheRepo) Insert(ctx context.Context, entry *entities.AnswerCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, entry)
	return nil
}

func (m *mockAnswerCacheRepo) Touch(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	if m.nearest != nil && m.nearest.ID == id {
		m.nearest.HitCount++
		m.nearest.LastUsedAt = time.Now()
	}
	return nil
}

// --- domain data source mocks ---

type mockVenueRepo struct {
	listFn   func(market string, limit int) ([]*entities.Venue, error)
	searchFn func(market, phrase string, limit int) ([]*entities.Venue, error)
	tagFn    func(market, tag string, limit int) ([]*entities.Venue, error)
	byIDsFn  func(ids []string) ([]*entities.Venue, error)

	mu       sync.Mutex
	searches []string
}

func (m *mockVenueRepo) List(ctx context.Context, market string, limit int) ([]*entities.Venue, error) {
	if m.listFn == nil {
		return []*entities.Venue{}, nil
	}
	return m.listFn(market, limit)
}

func (m *mockVenueRepo) SearchByName(ctx context.Context, market, phrase string, limit int) ([]*entities.Venue, error) {
	m.mu.Lock()
	m.searches = append(m.searches, phrase)
	m.mu.Unlock()
	if m.searchFn == nil {
		return []*entities.Venue{}, nil
	}
	return m.searchFn(market, phrase, limit)
}

func (m *mockVenueRepo) ListByTag(ctx context.Context, market, tag string, limit int) ([]*entities.Venue, error) {
	if m.tagFn == nil {
		return []*entities.Venue{}, nil
	}
	return m.tagFn(market, tag, limit)
}

func (m *mockVenueRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error) {
	if m.byIDsFn == nil {
		return []*entities.Venue{}, nil
	}
	return m.byIDsFn(ids)
}

type mockOfferRepo struct {
	recurringFn func(market string, kind entities.OfferKind, weekday string) ([]*entities.TimeWindowRecord, error)
	datedFn     func(market string, kind entities.OfferKind, date time.Time) ([]*entities.TimeWindowRecord, error)
}

func (m *mockOfferRepo) ListRecurringByWeekday(ctx context.Context, market string, kind entities.OfferKind, weekday string) ([]*entities.TimeWindowRecord, error) {
	if m.recurringFn == nil {
		return []*entities.TimeWindowRecord{}, nil
	}
	return m.recurringFn(market, kind, weekday)
}

func (m *mockOfferRepo) ListByDate(ctx context.Context, market string, kind entities.OfferKind, date time.Time) ([]*entities.TimeWindowRecord, error) {
	if m.datedFn == nil {
		return []*entities.TimeWindowRecord{}, nil
	}
	return m.datedFn(market, kind, date)
}

type mockMenuRepo struct {
	items []*entities.MenuItem
	err   error
	calls int
}

func (m *mockMenuRepo) ListByMarket(ctx context.Context, market string, limit int) ([]*entities.MenuItem, error) {
	m.calls++
	return m.items, m.err
}

type mockVoteRepo struct {
	tallies []*entities.VoteTally
	err     error
	calls   int
}

func (m *mockVoteRepo) TopForMonth(ctx context.Context, market, month string, limit int) ([]*entities.VoteTally, error) {
	m.calls++
	return m.tallies, m.err
}

// --- adapter mocks ---

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.vec != nil {
		return m.vec, nil
	}
	vec := make([]float32, entities.EmbeddingDim)
	vec[0] = 1
	return vec, nil
}

type mockCompleter struct {
	answer string
	err    error
	calls  int

	lastSystem string
	lastUser   string
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	m.calls++
	m.lastSystem = systemPrompt
	m.lastUser = userContent
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

var errBranchDown = errors.New("data source unavailable")

func testIntentService(t interface{ Fatalf(string, ...interface{}) }) *IntentService {
	svc, err := NewIntentService(DefaultMarkers(), "America/Chicago")
	if err != nil {
		t.Fatalf("failed to create intent service: %v", err)
	}
	return svc
}
