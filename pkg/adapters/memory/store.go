package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/intake/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
	mu   sync.RWMutex
}

type entry struct {
	result  domain.Result
	expires time.Time // zero when the result never expires
}

// Option configures the Store.
type Option func(*Store)

// WithTTL expires results ttl after they were saved.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save keeps a copy of the result.
func (s *Store) Save(ctx context.Context, result *domain.Result) error {
	// Copy the answers so the caller keeps ownership of its map
	e := entry{result: *result}
	e.result.Answers = maps.Clone(result.Answers)
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[result.ID] = e
	return nil
}

// Load retrieves a copy of the result.
func (s *Store) Load(ctx context.Context, id string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[id]
	if !ok || s.expired(e) {
		return nil, domain.ErrResultNotFound
	}

	ret := e.result
	ret.Answers = maps.Clone(e.result.Answers)
	return &ret, nil
}

// Delete removes the result.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the IDs of live results, pruning expired ones.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.data))
	for id, e := range s.data {
		if s.expired(e) {
			delete(s.data, id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) expired(e entry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}
