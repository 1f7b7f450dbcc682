package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafitra/prompt-to-app/internal/llm"
	"github.com/dafitra/prompt-to-app/internal/llm/fallback"
	"github.com/dafitra/prompt-to-app/internal/preview"
	"github.com/dafitra/prompt-to-app/internal/qr"
	"github.com/dafitra/prompt-to-app/internal/repository/memory"
	"github.com/dafitra/prompt-to-app/internal/service"
	"github.com/dafitra/prompt-to-app/internal/snack"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	store := memory.NewStore()
	t.Cleanup(func() { store.Close() })

	llmRouter := llm.NewRouter("fallback")
	llmRouter.RegisterProvider(fallback.NewProvider())

	generateService := service.NewGenerateService(llmRouter, 0.6, 1200)
	sessionService := service.NewSessionService(
		store,
		preview.NewWriter(t.TempDir()),
		qr.NewPublisher("http://localhost:4000", 128, 2000),
		snack.NewPublisher("", ""),
		nil,
		time.Hour,
	)

	aiHandler := NewAIHandler(generateService)
	sessionHandler := NewSessionHandler(sessionService)

	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Post("/api/ai/generate-text", aiHandler.GenerateText)
	r.Get("/api/ai/providers", ListLLMProviders(llmRouter))
	r.Post("/api/session/create-session", sessionHandler.Create)
	r.Get("/api/session/{id}", sessionHandler.Get)
	r.Patch("/api/session/{id}", sessionHandler.Update)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true}, decodeBody(t, rec))
}

func TestGenerateText_MissingPrompt(t *testing.T) {
	r := newTestRouter(t)

	for _, body := range []string{"", "{}", `{"prompt":""}`, "not json"} {
		rec := doJSON(t, r, http.MethodPost, "/api/ai/generate-text", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "prompt required", decodeBody(t, rec)["error"], "body %q", body)
	}
}

func TestGenerateText_OK(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/ai/generate-text", `{"prompt":"make a counter app"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	text, _ := body["text"].(string)
	assert.Contains(t, text, "```jsx")
}

func TestListLLMProviders(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/ai/providers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "fallback", body["default_provider"])
	providers, ok := body["providers"].([]any)
	require.True(t, ok)
	require.Len(t, providers, 1)
}

func TestCreateSession_MissingProject(t *testing.T) {
	r := newTestRouter(t)

	for _, body := range []string{"", "{}", `{"project":null}`} {
		rec := doJSON(t, r, http.MethodPost, "/api/session/create-session", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "project required", decodeBody(t, rec)["error"], "body %q", body)
	}
}

func TestCreateSession_OK(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/session/create-session",
		`{"project":{"title":"Demo","code":"`+"```"+`jsx\n<div>Hello</div>\n`+"```"+`"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	id, _ := body["sessionId"].(string)
	assert.NotEmpty(t, id)
	previewURL, _ := body["previewUrl"].(string)
	assert.True(t, strings.HasSuffix(previewURL, ".html"))
	qrDataURL, _ := body["qrDataUrl"].(string)
	assert.True(t, strings.HasPrefix(qrDataURL, "data:image/png;base64,"))

	// Unconfigured enrichment: the optional fields are omitted entirely.
	_, hasSnack := body["snackUrl"]
	assert.False(t, hasSnack)
}

func TestGetSession(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/session/create-session", `{"project":{"title":"Demo"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeBody(t, rec)["sessionId"].(string)

	rec = doJSON(t, r, http.MethodGet, "/api/session/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody(t, rec)
	assert.Equal(t, id, session["id"])

	rec = doJSON(t, r, http.MethodGet, "/api/session/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestUpdateSession(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/session/create-session", `{"project":{"title":"old"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeBody(t, rec)["sessionId"].(string)

	rec = doJSON(t, r, http.MethodPatch, "/api/session/"+id, `{"patch":{"title":"new"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeBody(t, rec)
	data, ok := session["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "new", data["title"])

	rec = doJSON(t, r, http.MethodPatch, "/api/session/"+id, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "patch required", decodeBody(t, rec)["error"])

	rec = doJSON(t, r, http.MethodPatch, "/api/session/ghost", `{"patch":{"x":1}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
