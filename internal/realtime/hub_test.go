package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func join(t *testing.T, conn *websocket.Conn, sessionID string) {
	t.Helper()
	err := conn.WriteJSON(map[string]string{"type": "join", "sessionId": sessionID})
	require.NoError(t, err)
}

func waitForMembers(t *testing.T, hub *Hub, sessionID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.rooms[sessionID]) == n
	}, time.Second, 5*time.Millisecond)
}

func TestHub_PublishReachesJoinedClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	join(t, conn, "s1")
	waitForMembers(t, hub, "s1", 1)

	hub.Publish("s1", map[string]any{"previewUrl": "http://x/preview-s1.html"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type      string         `json:"type"`
		SessionID string         `json:"sessionId"`
		Data      map[string]any `json:"data"`
		Timestamp int64          `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "session:update", msg.Type)
	assert.Equal(t, "s1", msg.SessionID)
	assert.Equal(t, "http://x/preview-s1.html", msg.Data["previewUrl"])
	assert.NotZero(t, msg.Timestamp)
}

func TestHub_PublishSkipsOtherSessions(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	join(t, conn, "mine")
	waitForMembers(t, hub, "mine", 1)

	hub.Publish("other", map[string]any{"n": 1})
	hub.Publish("mine", map[string]any{"n": 2})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg outboundMessage
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "mine", msg.SessionID)
}

func TestHub_PublishToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()

	// Must not block or panic when nobody joined.
	hub.Publish("nobody", map[string]any{"x": 1})
}

func TestHub_SessionUpdatedEnvelope(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	join(t, conn, "s9")
	waitForMembers(t, hub, "s9", 1)

	hub.SessionUpdated("s9", map[string]any{"title": "patched"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "s9", msg.Data["id"])
	inner, ok := msg.Data["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "patched", inner["title"])
}

func TestHub_DisconnectRemovesClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	join(t, conn, "s1")
	waitForMembers(t, hub, "s1", 1)

	conn.Close()
	waitForMembers(t, hub, "s1", 0)
}
