// Package object holds the game's entities: expanding rings and drifting
// points, the collections that own them, and their render views.
package object

import (
	"github.com/tomz197/ripples/internal/draw"
)

// Kind tags an entity as a ring or a point.
type Kind int

const (
	KindRing Kind = iota
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindRing:
		return "ring"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Variant selects the color/role preset an entity is built from.
type Variant int

const (
	VariantBase Variant = iota
	VariantWhite
)

// Screen holds play surface dimensions in logical pixels.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a Screen with its center filled in.
func NewScreen(width, height int) Screen {
	return Screen{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
}

// DrawContext provides drawing resources for shapes.
type DrawContext struct {
	Canvas *draw.Canvas
}

// Shape is an immutable render view of an entity at one instant.
type Shape struct {
	ID          uint64
	Kind        Kind
	X, Y        float64
	Radius      float64
	Opacity     float64
	StrokeColor string
	StrokeWidth float64
	FillColor   string
}

// Filled reports whether the shape is drawn as a disk rather than an outline.
func (s Shape) Filled() bool {
	return s.FillColor != "" && s.FillColor != "transparent"
}

// Color returns the color the shape is primarily drawn with.
func (s Shape) Color() string {
	if s.Filled() {
		return s.FillColor
	}
	return s.StrokeColor
}

// Draw plots the shape on the canvas. Opacity maps to intensity.
func (s Shape) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil || s.Opacity <= 0 {
		return nil
	}
	c, err := draw.ParseHexColor(s.Color())
	if err != nil {
		return err
	}
	ctx.Canvas.DrawCircle(s.X, s.Y, s.Radius, draw.Style{
		Color:     c,
		Intensity: s.Opacity,
		Filled:    s.Filled(),
	})
	return nil
}
