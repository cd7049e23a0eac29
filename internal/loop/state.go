package loop

import (
	"time"

	"github.com/tomz197/ripples/internal/object"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateUninitialized State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// popupDuration is how long an awarded score stays on screen.
const popupDuration = 600 * time.Millisecond

// Popup is a short-lived score label shown where a point burst.
type Popup struct {
	X, Y  float64
	Award int64
	Chain int
	Until time.Time
}

// Snapshot is an immutable view of a session for rendering.
// Rings are listed before points so points draw on top.
type Snapshot struct {
	State       State
	Shapes      []object.Shape
	Popups      []Popup
	Score       int64
	Chain       int
	ChainActive bool
	Screen      object.Screen
	At          time.Time
}
