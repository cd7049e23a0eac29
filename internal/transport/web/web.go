// Package web serves the game to browsers: a static page plus a websocket
// that streams session snapshots and accepts clicks.
package web

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/ripples/internal/loop/server"
)

//go:embed static
var staticFiles embed.FS

const (
	frameInterval = time.Second / 30
	readLimit     = 4096
	pongWait      = 60 * time.Second
	pingPeriod    = 25 * time.Second
	writeWait     = 10 * time.Second
	maxScreenSide = 4096
)

// Handler serves the page and the game websocket.
type Handler struct {
	server   server.GameServer
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// NewHandler creates a handler backed by gs. allowedOrigin restricts the
// websocket Origin header; empty allows any origin.
func NewHandler(gs server.GameServer, log logrus.FieldLogger, allowedOrigin string) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{server: gs, log: log}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			return allowedOrigin == "" || r.Header.Get("Origin") == allowedOrigin
		},
	}
	return h
}

// Routes returns the HTTP routes: "/" for the page, "/ws" for the game and
// "/healthz" for liveness checks.
func (h *Handler) Routes() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(sub)))
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"players": h.server.Players()})
	})
	return mux
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	handle := h.server.RegisterClient(r.URL.Query().Get("name"))
	defer h.server.UnregisterClient(handle.ID)

	log := h.log.WithFields(logrus.Fields{
		"client": handle.ID,
		"remote": r.RemoteAddr,
	})
	log.Info("websocket connected")

	done := make(chan struct{})
	go h.readLoop(conn, handle.ID, done, log)
	h.writeLoop(conn, handle, done, log)
	log.Info("websocket disconnected")
}

// readLoop forwards browser messages to the server until the connection fails.
func (h *Handler) readLoop(conn *websocket.Conn, clientID string, done chan<- struct{}, log logrus.FieldLogger) {
	defer close(done)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("websocket read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Debug("bad message")
			continue
		}
		h.handleMessage(clientID, msg)
	}
}

func (h *Handler) handleMessage(clientID string, msg Inbound) {
	switch msg.Type {
	case TypeClick:
		h.server.SendInput(server.Click(clientID, msg.X, msg.Y))
	case TypeResize:
		if msg.Width > 0 && msg.Height > 0 && msg.Width <= maxScreenSide && msg.Height <= maxScreenSide {
			h.server.SendInput(server.Resize(clientID, msg.Width, msg.Height))
		}
	case TypeRestart:
		h.server.SendInput(server.Restart(clientID))
	}
}

// writeLoop streams snapshots and events until the reader stops, the server
// drops the client or a write fails.
func (h *Handler) writeLoop(conn *websocket.Conn, handle *server.ClientHandle, done <-chan struct{}, log logrus.FieldLogger) {
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			log.WithError(err).Debug("websocket write failed")
			return false
		}
		return true
	}

	for {
		select {
		case <-done:
			return
		case ev, ok := <-handle.EventsCh:
			if !ok {
				return
			}
			switch ev.Type {
			case server.EventScoreAdd:
				if !write(encodeBurst(ev.Burst)) {
					return
				}
			case server.EventServerShutdown:
				write(ShutdownMessage{Type: TypeShutdown})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
		case <-frames.C:
			if !write(encodeSnapshot(handle.Snapshot())) {
				return
			}
		case <-pings.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
