package web

import (
	"github.com/tomz197/ripples/internal/loop"
	"github.com/tomz197/ripples/internal/object"
)

// Message types on the wire.
const (
	TypeClick    = "click"
	TypeResize   = "resize"
	TypeRestart  = "restart"
	TypeSnapshot = "snapshot"
	TypeBurst    = "burst"
	TypeShutdown = "shutdown"
)

// Inbound is a message from the browser.
type Inbound struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// Shape is the wire form of object.Shape.
type Shape struct {
	Kind        string  `json:"kind"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	Filled      bool    `json:"filled"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// Popup is the wire form of loop.Popup.
type Popup struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Award int64   `json:"award"`
	Chain int     `json:"chain"`
}

// SnapshotMessage carries one frame of a session.
type SnapshotMessage struct {
	Type        string  `json:"type"`
	Score       int64   `json:"score"`
	Chain       int     `json:"chain"`
	ChainActive bool    `json:"chainActive"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Shapes      []Shape `json:"shapes"`
	Popups      []Popup `json:"popups,omitempty"`
}

// BurstMessage announces a burst, for sound and effects on the page.
type BurstMessage struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Award int64   `json:"award"`
	Chain int     `json:"chain"`
	Score int64   `json:"score"`
}

// ShutdownMessage tells the page the server is going away.
type ShutdownMessage struct {
	Type string `json:"type"`
}

func encodeShape(s object.Shape) Shape {
	return Shape{
		Kind:        s.Kind.String(),
		X:           s.X,
		Y:           s.Y,
		Radius:      s.Radius,
		Color:       s.Color(),
		Opacity:     s.Opacity,
		Filled:      s.Filled(),
		StrokeWidth: s.StrokeWidth,
	}
}

func encodeSnapshot(s *loop.Snapshot) SnapshotMessage {
	msg := SnapshotMessage{
		Type:        TypeSnapshot,
		Score:       s.Score,
		Chain:       s.Chain,
		ChainActive: s.ChainActive,
		Width:       s.Screen.Width,
		Height:      s.Screen.Height,
		Shapes:      make([]Shape, len(s.Shapes)),
	}
	for i, shape := range s.Shapes {
		msg.Shapes[i] = encodeShape(shape)
	}
	for _, p := range s.Popups {
		msg.Popups = append(msg.Popups, Popup{X: p.X, Y: p.Y, Award: p.Award, Chain: p.Chain})
	}
	return msg
}

func encodeBurst(b loop.Burst) BurstMessage {
	return BurstMessage{Type: TypeBurst, X: b.X, Y: b.Y, Award: b.Award, Chain: b.Chain, Score: b.Score}
}
