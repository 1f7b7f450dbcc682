package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for unknown and expired sessions alike.
var ErrSessionNotFound = errors.New("session not found")

// Session correlates a generated artifact with a shareable preview link.
// Data is an arbitrary caller-supplied mapping; on update, top-level keys
// of the patch replace same-named keys wholesale (non-recursive merge).
type Session struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Data      map[string]any `json:"data"`
}

// Clone returns a copy with its own data map, safe to hand out of a store.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	data := make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	return &Session{ID: s.ID, CreatedAt: s.CreatedAt, Data: data}
}

// SessionStore defines the interface for session storage backends.
// Consumers must not assume a particular backend.
type SessionStore interface {
	Create(ctx context.Context, data map[string]any, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, patch map[string]any) (*Session, error)
	Subscribe(obs SessionObserver)
	Close() error
}

// SessionObserver receives the merged data after every successful update.
// Stores call observers synchronously and ignore their outcome, so a
// transport-facing observer must not block.
type SessionObserver interface {
	SessionUpdated(id string, data map[string]any)
}

// Project is the typed view over session data that the preview pipeline
// consumes. Keys outside these three stay in the session untouched.
type Project struct {
	Title string
	HTML  string
	Code  string
}

// ProjectFromData extracts the preview-relevant fields from session data.
func ProjectFromData(data map[string]any) Project {
	str := func(key string) string {
		if v, ok := data[key].(string); ok {
			return v
		}
		return ""
	}
	return Project{
		Title: str("title"),
		HTML:  str("html"),
		Code:  str("code"),
	}
}
