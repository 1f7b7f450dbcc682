package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafitra/prompt-to-app/internal/domain"
	"github.com/dafitra/prompt-to-app/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore persists sessions as JSON values with a native Redis TTL.
// Expiry never needs a sweeper here; Redis evicts the key itself.
type SessionStore struct {
	repository.Broadcaster
	client *Client
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, id)
}

// Create allocates a fresh session expiring ttl from now.
func (s *SessionStore) Create(ctx context.Context, data map[string]any, ttl time.Duration) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Get returns the live session or domain.ErrSessionNotFound once the key
// has been evicted.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Update shallow-merges patch into the session data, keeping the TTL that
// was set at creation, and notifies subscribed observers.
func (s *SessionStore) Update(ctx context.Context, id string, patch map[string]any) (*domain.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Data = repository.MergeData(session.Data, patch)

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, sessionKey(id), payload, redis.KeepTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.NotifyUpdated(id, session.Data)
	return session, nil
}

// Close closes the underlying Redis connection.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
