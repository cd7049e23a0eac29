package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ripples/internal/config"
	"github.com/tomz197/ripples/internal/loop/server"
)

func startServer(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()
	log, _ := test.NewNullLogger()
	gs := server.NewServer(config.DefaultSettings(), log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go gs.Run(ctx)

	ts := httptest.NewServer(NewHandler(gs, log, "").Routes())
	t.Cleanup(ts.Close)
	return gs, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?name=tester"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// nextSnapshot reads until a snapshot satisfying ok arrives.
func nextSnapshot(t *testing.T, conn *websocket.Conn, ok func(SnapshotMessage) bool) SnapshotMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var head struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &head))
		if head.Type != TypeSnapshot {
			continue
		}
		var msg SnapshotMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if ok(msg) {
			return msg
		}
	}
}

func TestServesPage(t *testing.T) {
	_, ts := startServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `<canvas id="board">`)
}

func TestHealthz(t *testing.T) {
	_, ts := startServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"players":0}`, string(body))
}

func TestClickOverWebsocket(t *testing.T) {
	gs, ts := startServer(t)
	conn := dial(t, ts)

	first := nextSnapshot(t, conn, func(m SnapshotMessage) bool { return m.Width > 0 })
	assert.Equal(t, 640, first.Width)
	assert.Equal(t, 1, gs.Players())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeResize, Width: 800, Height: 600}))
	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeClick, X: 120, Y: 80}))

	got := nextSnapshot(t, conn, func(m SnapshotMessage) bool {
		for _, s := range m.Shapes {
			if s.Kind == "ring" {
				return true
			}
		}
		return false
	})
	assert.Equal(t, 800, got.Width)
	var ring Shape
	for _, s := range got.Shapes {
		if s.Kind == "ring" {
			ring = s
		}
	}
	assert.Equal(t, 120.0, ring.X)
	assert.Equal(t, 80.0, ring.Y)
	assert.Equal(t, "#08C", ring.Color)
	assert.False(t, ring.Filled)
}

func TestDisconnectUnregisters(t *testing.T) {
	gs, ts := startServer(t)
	conn := dial(t, ts)
	nextSnapshot(t, conn, func(m SnapshotMessage) bool { return m.Width > 0 })
	require.Equal(t, 1, gs.Players())

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return gs.Players() == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestShutdownMessage(t *testing.T) {
	gs, ts := startServer(t)
	conn := dial(t, ts)
	nextSnapshot(t, conn, func(m SnapshotMessage) bool { return m.Width > 0 })

	go gs.Shutdown(3 * time.Second)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var raw map[string]any
		require.NoError(t, conn.ReadJSON(&raw))
		if raw["type"] == TypeShutdown {
			break
		}
	}
}
