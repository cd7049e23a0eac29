// Package server runs every connected client's game session from a single
// goroutine and publishes immutable snapshots for the renderers.
package server

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/ripples/internal/config"
	"github.com/tomz197/ripples/internal/loop"
	lconfig "github.com/tomz197/ripples/internal/loop/config"
	"github.com/tomz197/ripples/internal/object"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples frontends (terminal, websocket) from the concrete Server.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID string)
	SendInput(input ClientInput)
	Players() int
}

// Server owns one session per client and advances them all on a fixed tick.
type Server struct {
	settings config.Settings
	log      logrus.FieldLogger
	rng      *rand.Rand
	world    object.Screen

	clients      map[string]*ClientHandle
	players      atomic.Int32
	inputChan    chan ClientInput
	registerCh   chan *ClientHandle
	unregisterCh chan string
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a new game server. Every session uses settings.
func NewServer(settings config.Settings, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		settings:     settings,
		log:          log,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		world:        object.NewScreen(lconfig.WorldWidth, lconfig.WorldHeight),
		clients:      make(map[string]*ClientHandle),
		inputChan:    make(chan ClientInput, lconfig.InputBufferSize),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan string, 16),
	}
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(lconfig.ServerTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.step(now)
		}
	}
}

// step runs one server tick at now.
func (s *Server) step(now time.Time) {
	s.processRegistrations(now)
	s.collectInputs(now)
	s.advanceSessions(now)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.log.WithField("remaining", s.Players()).Warn("shutdown timed out")
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns
// its handle. The session starts on the next tick.
func (s *Server) RegisterClient(username string) *ClientHandle {
	handle := &ClientHandle{
		ID:       uuid.NewString(),
		Username: username,
		EventsCh: make(chan ClientEvent, lconfig.EventsBufferSize),
	}
	handle.Publish(emptySnapshot(s.world))
	s.players.Add(1)

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID string) {
	s.unregisterCh <- clientID
}

// SendInput queues input from a client. Input is dropped when the queue is full.
func (s *Server) SendInput(input ClientInput) {
	select {
	case s.inputChan <- input:
	default:
		s.log.WithField("client", input.ClientID).Debug("input dropped")
	}
}

// Players returns the number of registered clients.
func (s *Server) Players() int {
	return int(s.players.Load())
}

// newSession creates and starts a session whose bursts are forwarded to handle.
func (s *Server) newSession(handle *ClientHandle, screen object.Screen, now time.Time) *loop.Session {
	sess := loop.NewSession(s.settings,
		loop.WithRand(rand.New(rand.NewSource(s.rng.Int63()))),
		loop.WithLogger(s.log.WithField("client", handle.ID)),
		loop.WithBurstHandler(func(b loop.Burst) {
			select {
			case handle.EventsCh <- ClientEvent{Type: EventScoreAdd, Burst: b}:
			default:
			}
		}),
	)
	sess.Init(now, screen)
	return sess
}

// processRegistrations handles pending client registrations, then
// unregistrations, so a client that leaves right after joining is removed.
func (s *Server) processRegistrations(now time.Time) {
registrations:
	for {
		select {
		case handle := <-s.registerCh:
			s.addClient(handle, now)
		default:
			break registrations
		}
	}

	for {
		select {
		case clientID := <-s.unregisterCh:
			s.removeClient(clientID)
		default:
			return
		}
	}
}

func (s *Server) addClient(handle *ClientHandle, now time.Time) {
	handle.session = s.newSession(handle, s.world, now)
	handle.Publish(handle.session.Snapshot())
	s.mu.Lock()
	s.clients[handle.ID] = handle
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"client":   handle.ID,
		"username": handle.Username,
	}).Info("client registered")
}

// removeClient drops a client and closes its events channel. The channel is
// closed under the write lock so Shutdown never sends on a closed channel.
func (s *Server) removeClient(clientID string) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		delete(s.clients, clientID)
		close(handle.EventsCh)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.players.Add(-1)
	s.log.WithFields(logrus.Fields{
		"client": clientID,
		"score":  handle.session.Tracker().Score(),
	}).Info("client unregistered")
}

// collectInputs applies all pending inputs to their sessions.
func (s *Server) collectInputs(now time.Time) {
	for {
		select {
		case in := <-s.inputChan:
			s.mu.RLock()
			handle, ok := s.clients[in.ClientID]
			s.mu.RUnlock()
			if !ok {
				continue
			}
			s.applyInput(handle, in, now)
		default:
			return
		}
	}
}

func (s *Server) applyInput(handle *ClientHandle, in ClientInput, now time.Time) {
	switch in.Kind {
	case InputClick:
		handle.session.Click(in.X, in.Y, now)
	case InputResize:
		if in.Width > 0 && in.Height > 0 {
			handle.session.Resize(object.NewScreen(in.Width, in.Height))
		}
	case InputRestart:
		handle.session = s.newSession(handle, handle.session.Screen(), now)
	}
}

// advanceSessions runs every session's timers up to now and publishes the
// resulting snapshots.
func (s *Server) advanceSessions(now time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		handle.session.Advance(now)
		handle.Publish(handle.session.Snapshot())
	}
}
