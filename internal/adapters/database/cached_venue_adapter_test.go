package database

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

type stubVenueRepo struct {
	venues []*entities.Venue
	err    error
	calls  int
}

func (s *stubVenueRepo) List(ctx context.Context, market string, limit int) ([]*entities.Venue, error) {
	s.calls++
	return s.venues, s.err
}

func (s *stubVenueRepo) SearchByName(ctx context.Context, market, phrase string, limit int) ([]*entities.Venue, error) {
	s.calls++
	return s.venues, s.err
}

func (s *stubVenueRepo) ListByTag(ctx context.Context, market, tag string, limit int) ([]*entities.Venue, error) {
	s.calls++
	return s.venues, s.err
}

func (s *stubVenueRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error) {
	s.calls++
	return s.venues, s.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets chan string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, sets: make(chan string, 10)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	m.sets <- key
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func waitForSet(t *testing.T, cache *memoryCache) {
	t.Helper()
	select {
	case <-cache.sets:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for async cache write")
	}
}

func TestCachedVenueAdapter_List(t *testing.T) {
	t.Run("miss fetches from the inner adapter and populates the cache", func(t *testing.T) {
		inner := &stubVenueRepo{venues: []*entities.Venue{{ID: "v-1", Name: "Odd Duck"}}}
		cache := newMemoryCache()
		adapter := NewCachedVenueAdapter(inner, cache)

		venues, err := adapter.List(context.Background(), "austin", 25)
		require.NoError(t, err)
		require.Len(t, venues, 1)
		assert.Equal(t, 1, inner.calls)

		waitForSet(t, cache)
		cached, err := cache.Get(context.Background(), venueListCacheKey("austin", 25))
		require.NoError(t, err)
		assert.Contains(t, string(cached), "Odd Duck")
	})

	t.Run("hit never touches the inner adapter", func(t *testing.T) {
		inner := &stubVenueRepo{}
		cache := newMemoryCache()
		data, _ := json.Marshal([]*entities.Venue{{ID: "v-1", Name: "Odd Duck"}})
		require.NoError(t, cache.Set(context.Background(), venueListCacheKey("austin", 25), data, 60))
		adapter := NewCachedVenueAdapter(inner, cache)

		venues, err := adapter.List(context.Background(), "austin", 25)
		require.NoError(t, err)
		require.Len(t, venues, 1)
		assert.Equal(t, "Odd Duck", venues[0].Name)
		assert.Zero(t, inner.calls)
	})

	t.Run("corrupt cache entry falls back to the inner adapter", func(t *testing.T) {
		inner := &stubVenueRepo{venues: []*entities.Venue{{ID: "v-1"}}}
		cache := newMemoryCache()
		require.NoError(t, cache.Set(context.Background(), venueListCacheKey("austin", 25), []byte("{not json"), 60))
		<-cache.sets
		adapter := NewCachedVenueAdapter(inner, cache)

		venues, err := adapter.List(context.Background(), "austin", 25)
		require.NoError(t, err)
		require.Len(t, venues, 1)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("inner errors propagate without caching", func(t *testing.T) {
		inner := &stubVenueRepo{err: errors.New("db down")}
		cache := newMemoryCache()
		adapter := NewCachedVenueAdapter(inner, cache)

		_, err := adapter.List(context.Background(), "austin", 25)
		assert.Error(t, err)
		_, err = cache.Get(context.Background(), venueListCacheKey("austin", 25))
		assert.Error(t, err, "failed fetches must not be cached")
	})
}

func TestCachedVenueAdapter_KeyIsolation(t *testing.T) {
	inner := &stubVenueRepo{venues: []*entities.Venue{{ID: "v-1"}}}
	cache := newMemoryCache()
	adapter := NewCachedVenueAdapter(inner, cache)

	_, err := adapter.SearchByName(context.Background(), "austin", "odd duck", 8)
	require.NoError(t, err)
	_, err = adapter.ListByTag(context.Background(), "austin", "brunch", 10)
	require.NoError(t, err)

	waitForSet(t, cache)
	waitForSet(t, cache)

	_, searchErr := cache.Get(context.Background(), venueSearchCacheKey("austin", "odd duck", 8))
	_, tagErr := cache.Get(context.Background(), venueTagCacheKey("austin", "brunch", 10))
	assert.NoError(t, searchErr)
	assert.NoError(t, tagErr)
	assert.Equal(t, 2, inner.calls)
}
