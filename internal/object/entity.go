package object

import (
	"time"
)

// FadeMode controls whether an entity's opacity decays over its lifetime.
// The zero value defers to the preset.
type FadeMode int

const (
	FadeDefault FadeMode = iota
	FadeOn
	FadeOff
)

// Config parameterizes an entity. Zero fields in an override keep the
// preset's value, see Merge.
type Config struct {
	InitRadius  float64       // rings: radius at creation
	Radius      float64       // points: fixed radius; rings: end radius when Speed is zero
	Duration    time.Duration // animation length, also the time-to-live
	Speed       float64       // rings: radius growth in px/ms
	StrokeColor string
	StrokeWidth float64
	FillColor   string
	Fade        FadeMode
}

// Merge returns c with every non-zero field of over applied on top.
func (c Config) Merge(over Config) Config {
	if over.InitRadius != 0 {
		c.InitRadius = over.InitRadius
	}
	if over.Radius != 0 {
		c.Radius = over.Radius
	}
	if over.Duration != 0 {
		c.Duration = over.Duration
	}
	if over.Speed != 0 {
		c.Speed = over.Speed
	}
	if over.StrokeColor != "" {
		c.StrokeColor = over.StrokeColor
	}
	if over.StrokeWidth != 0 {
		c.StrokeWidth = over.StrokeWidth
	}
	if over.FillColor != "" {
		c.FillColor = over.FillColor
	}
	if over.Fade != FadeDefault {
		c.Fade = over.Fade
	}
	return c
}

// Entity is a timed, animated circle: either a ring growing from its
// center or a point drifting in a straight line.
//
// X, Y, Radius and Opacity hold the animated state as of the last Step.
type Entity struct {
	ID      uint64
	Kind    Kind
	Variant Variant
	Config  Config

	OriginX, OriginY float64
	DX, DY           float64 // points: velocity in px/ms
	Born             time.Time

	X, Y    float64
	Radius  float64
	Opacity float64

	done bool
}

// NewRing creates a ring centered at (x, y). cfg is the already merged configuration.
func NewRing(id uint64, variant Variant, x, y float64, now time.Time, cfg Config) *Entity {
	return &Entity{
		ID:      id,
		Kind:    KindRing,
		Variant: variant,
		Config:  cfg,
		OriginX: x,
		OriginY: y,
		Born:    now,
		X:       x,
		Y:       y,
		Radius:  cfg.InitRadius,
		Opacity: 1,
	}
}

// NewPoint creates a point at (x, y) moving by (dx, dy) px/ms.
func NewPoint(id uint64, variant Variant, x, y, dx, dy float64, now time.Time, cfg Config) *Entity {
	return &Entity{
		ID:      id,
		Kind:    KindPoint,
		Variant: variant,
		Config:  cfg,
		OriginX: x,
		OriginY: y,
		DX:      dx,
		DY:      dy,
		Born:    now,
		X:       x,
		Y:       y,
		Radius:  cfg.Radius,
		Opacity: 1,
	}
}

// EndRadius is the radius a ring reaches when its animation completes.
func (e *Entity) EndRadius() float64 {
	if e.Kind != KindRing {
		return e.Config.Radius
	}
	if e.Config.Speed > 0 {
		return float64(e.Config.Duration.Milliseconds()) * e.Config.Speed
	}
	return e.Config.Radius
}

// Expires returns the instant the entity's animation completes.
func (e *Entity) Expires() time.Time {
	return e.Born.Add(e.Config.Duration)
}

// Progress returns the fraction of the animation elapsed at now, in [0, 1].
func (e *Entity) Progress(now time.Time) float64 {
	if e.Config.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(e.Born)) / float64(e.Config.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Step advances the animation to now and reports whether it has completed.
// A completed entity stays completed.
func (e *Entity) Step(now time.Time) bool {
	if e.done {
		return true
	}
	p := e.Progress(now)

	switch e.Kind {
	case KindRing:
		e.Radius = e.Config.InitRadius + (e.EndRadius()-e.Config.InitRadius)*p
		e.Opacity = 1 - p
	case KindPoint:
		ms := p * float64(e.Config.Duration.Milliseconds())
		e.X = e.OriginX + e.DX*ms
		e.Y = e.OriginY + e.DY*ms
		if e.Config.Fade == FadeOn {
			e.Opacity = 1 - p
		}
	}

	if p >= 1 {
		e.done = true
	}
	return e.done
}

// Done reports whether the animation completed at the last Step.
func (e *Entity) Done() bool {
	return e.done
}

// Shape returns the render view of the entity's current state.
func (e *Entity) Shape() Shape {
	return Shape{
		ID:          e.ID,
		Kind:        e.Kind,
		X:           e.X,
		Y:           e.Y,
		Radius:      e.Radius,
		Opacity:     e.Opacity,
		StrokeColor: e.Config.StrokeColor,
		StrokeWidth: e.Config.StrokeWidth,
		FillColor:   e.Config.FillColor,
	}
}
