package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dafitra/prompt-to-app/internal/domain"
	"github.com/dafitra/prompt-to-app/internal/preview"
	"github.com/dafitra/prompt-to-app/internal/qr"
	"github.com/dafitra/prompt-to-app/internal/repository/memory"
	"github.com/dafitra/prompt-to-app/internal/snack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	ids  []string
	data []map[string]any
}

func (n *recordingNotifier) Publish(sessionID string, data map[string]any) {
	n.ids = append(n.ids, sessionID)
	n.data = append(n.data, data)
}

func newTestSessionService(t *testing.T, notifier Notifier) (*SessionService, string) {
	t.Helper()

	dir := t.TempDir()
	store := memory.NewStore()
	t.Cleanup(func() { store.Close() })

	svc := NewSessionService(
		store,
		preview.NewWriter(dir),
		qr.NewPublisher("http://localhost:4000", 128, 2000),
		snack.NewPublisher("", ""), // unconfigured, always skipped
		notifier,
		time.Hour,
	)
	return svc, dir
}

func TestSessionService_Create(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, dir := newTestSessionService(t, notifier)

	res, err := svc.Create(context.Background(), map[string]any{
		"title": "Demo",
		"code":  "```jsx\n<div>Hello</div>\n```",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "http://localhost:4000/public/preview-"+res.SessionID+".html", res.PreviewURL)
	assert.True(t, strings.HasPrefix(res.QRDataURL, "data:image/png;base64,"))
	require.NotNil(t, res.Session)
	assert.Equal(t, res.SessionID, res.Session.ID)

	// Unconfigured snack publisher leaves the enrichment fields empty.
	assert.Empty(t, res.SnackURL)
	assert.Empty(t, res.GistURL)

	// The preview document landed on disk and carries the project markup.
	body, err := os.ReadFile(filepath.Join(dir, preview.Filename(res.SessionID)))
	require.NoError(t, err)
	assert.Contains(t, string(body), "<div>Hello</div>")
}

func TestSessionService_CreatePushesOneUpdate(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestSessionService(t, notifier)

	res, err := svc.Create(context.Background(), map[string]any{"title": "x"})
	require.NoError(t, err)

	require.Len(t, notifier.ids, 1)
	assert.Equal(t, res.SessionID, notifier.ids[0])
	assert.Equal(t, res.PreviewURL, notifier.data[0]["previewUrl"])
}

func TestSessionService_CreateWithNilNotifier(t *testing.T) {
	svc, _ := newTestSessionService(t, nil)

	_, err := svc.Create(context.Background(), map[string]any{"title": "x"})
	assert.NoError(t, err)
}

func TestSessionService_GetRoundtrip(t *testing.T) {
	svc, _ := newTestSessionService(t, nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, map[string]any{"title": "Demo"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.Data["title"])

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_Update(t *testing.T) {
	svc, _ := newTestSessionService(t, nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, map[string]any{"title": "old", "code": "kept"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, res.SessionID, map[string]any{"title": "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Data["title"])
	assert.Equal(t, "kept", updated.Data["code"])
}
