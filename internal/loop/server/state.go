package server

import (
	"sync/atomic"

	"github.com/tomz197/ripples/internal/loop"
	"github.com/tomz197/ripples/internal/object"
)

// ClientHandle represents a client's connection to the server.
// session is owned by the server goroutine; clients only read snapshots.
type ClientHandle struct {
	ID       string
	Username string
	EventsCh chan ClientEvent // Events sent to client (score, shutdown)

	session  *loop.Session
	snapshot atomic.Pointer[loop.Snapshot]
}

// Snapshot returns the latest published view of this client's session.
func (h *ClientHandle) Snapshot() *loop.Snapshot {
	return h.snapshot.Load()
}

// Publish replaces the snapshot returned to renderers.
func (h *ClientHandle) Publish(s *loop.Snapshot) {
	h.snapshot.Store(s)
}

// InputKind identifies the type of client input.
type InputKind int

const (
	InputClick   InputKind = iota // Create a ring at (X, Y)
	InputResize                   // Change the play surface to Width x Height
	InputRestart                  // Start a fresh session
)

// ClientInput represents input from a specific client.
type ClientInput struct {
	ClientID string
	Kind     InputKind
	X, Y     float64
	Width    int
	Height   int
}

// Click builds a click input.
func Click(clientID string, x, y float64) ClientInput {
	return ClientInput{ClientID: clientID, Kind: InputClick, X: x, Y: y}
}

// Resize builds a resize input.
func Resize(clientID string, width, height int) ClientInput {
	return ClientInput{ClientID: clientID, Kind: InputResize, Width: width, Height: height}
}

// Restart builds a restart input.
func Restart(clientID string) ClientInput {
	return ClientInput{ClientID: clientID, Kind: InputRestart}
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Burst loop.Burst // For score events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventScoreAdd ClientEventType = iota
	EventServerShutdown
)

func emptySnapshot(screen object.Screen) *loop.Snapshot {
	return &loop.Snapshot{State: loop.StateUninitialized, Screen: screen}
}
