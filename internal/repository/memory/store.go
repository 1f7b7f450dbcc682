package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dafitra/prompt-to-app/internal/domain"
	"github.com/dafitra/prompt-to-app/internal/repository"
	"github.com/google/uuid"
)

const defaultSweepInterval = time.Minute

// entry pairs a session with its expiry deadline.
type entry struct {
	session   *domain.Session
	expiresAt time.Time
}

// Store is an in-memory session store. Expiry is enforced lazily on every
// read and by a background sweeper, so no per-entry timer outlives the
// store: Close stops the sweeper and pending expiries are simply dropped
// with the map.
type Store struct {
	repository.Broadcaster

	mu      sync.RWMutex
	entries map[string]entry

	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates an in-memory store and starts its sweeper.
func NewStore() *Store {
	return NewStoreWithSweep(defaultSweepInterval)
}

// NewStoreWithSweep creates a store with a custom sweep interval.
func NewStoreWithSweep(interval time.Duration) *Store {
	s := &Store{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go s.sweep(interval)
	return s
}

// Create allocates a fresh session expiring ttl from now.
func (s *Store) Create(ctx context.Context, data map[string]any, ttl time.Duration) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}

	s.mu.Lock()
	s.entries[session.ID] = entry{session: session, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()

	return session.Clone(), nil
}

// Get returns the live session or domain.ErrSessionNotFound. An expired
// entry found on the way is removed.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, domain.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

// Update shallow-merges patch into the session data and notifies
// subscribed observers with the merged result.
func (s *Store) Update(ctx context.Context, id string, patch map[string]any) (*domain.Session, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	merged := e.session.Clone()
	merged.Data = repository.MergeData(merged.Data, patch)
	s.entries[id] = entry{session: merged, expiresAt: e.expiresAt}
	s.mu.Unlock()

	result := merged.Clone()
	s.NotifyUpdated(id, result.Data)
	return result, nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
