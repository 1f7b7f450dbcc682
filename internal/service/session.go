package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dafitra/prompt-to-app/internal/domain"
	"github.com/dafitra/prompt-to-app/internal/preview"
	"github.com/dafitra/prompt-to-app/internal/qr"
	"github.com/dafitra/prompt-to-app/internal/snack"
	"github.com/rs/zerolog/log"
)

// Notifier pushes realtime updates for the create path. Failures stay
// inside the implementation; the interface has nothing to return.
type Notifier interface {
	Publish(sessionID string, data map[string]any)
}

// CreateResult is the composed create-session response.
type CreateResult struct {
	SessionID  string          `json:"sessionId"`
	PreviewURL string          `json:"previewUrl"`
	QRDataURL  string          `json:"qrDataUrl"`
	Session    *domain.Session `json:"session"`
	SnackURL   string          `json:"snackUrl,omitempty"`
	GistURL    string          `json:"gistUrl,omitempty"`
}

// SessionService composes the session pipeline: store, preview document,
// QR link, optional gist/snack enrichment, realtime push.
type SessionService struct {
	store    domain.SessionStore
	writer   *preview.Writer
	qr       *qr.Publisher
	snack    *snack.Publisher
	notifier Notifier
	ttl      time.Duration
}

// NewSessionService creates a new session service
func NewSessionService(
	store domain.SessionStore,
	writer *preview.Writer,
	qrPublisher *qr.Publisher,
	snackPublisher *snack.Publisher,
	notifier Notifier,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		store:    store,
		writer:   writer,
		qr:       qrPublisher,
		snack:    snackPublisher,
		notifier: notifier,
		ttl:      ttl,
	}
}

// Create persists the project, renders and writes its preview document,
// publishes the QR link, attempts the snack enrichment and pushes one
// realtime update. Only the store, renderer and QR steps can fail the
// call; enrichment and push degrade silently.
func (s *SessionService) Create(ctx context.Context, project map[string]any) (*CreateResult, error) {
	session, err := s.store.Create(ctx, project, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	proj := domain.ProjectFromData(session.Data)
	doc := preview.Render(preview.Input{Title: proj.Title, HTML: proj.HTML, Code: proj.Code})
	if _, err := s.writer.Write(session.ID, doc); err != nil {
		return nil, err
	}

	link, err := s.qr.Publish(session.ID, "")
	if err != nil {
		return nil, err
	}

	result := &CreateResult{
		SessionID:  session.ID,
		PreviewURL: link.URL,
		QRDataURL:  link.ImageDataURL,
		Session:    session,
	}

	if enrichment := s.snack.Publish(ctx, proj.Code); enrichment.Status == snack.StatusEnriched {
		result.SnackURL = enrichment.SnackURL
		result.GistURL = enrichment.GistURL
	}

	if s.notifier != nil {
		s.notifier.Publish(session.ID, map[string]any{"previewUrl": result.PreviewURL})
	}

	log.Info().
		Str("session_id", session.ID).
		Str("preview_url", result.PreviewURL).
		Bool("snack", result.SnackURL != "").
		Msg("Session created")

	return result, nil
}

// Get returns the stored session record.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// Update applies a partial patch to the session data. The store notifies
// its observers with the merged result.
func (s *SessionService) Update(ctx context.Context, id string, patch map[string]any) (*domain.Session, error) {
	return s.store.Update(ctx, id, patch)
}
