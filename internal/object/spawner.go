package object

import (
	"math"
	"math/rand"
)

// Edge is a side of the play surface points enter from.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// spawnSpread is the maximum deviation from the inward normal (±60°).
const spawnSpread = math.Pi / 3

// inwardNormal returns the heading pointing into the surface from edge.
// Screen coordinates grow downward, so "into the surface" from the top is +Y.
func (e Edge) inwardNormal() float64 {
	switch e {
	case EdgeTop:
		return math.Pi / 2
	case EdgeBottom:
		return -math.Pi / 2
	case EdgeLeft:
		return 0
	default:
		return math.Pi
	}
}

// Entry is where and how a point enters the surface.
type Entry struct {
	Edge   Edge
	X, Y   float64
	DX, DY float64 // px/ms
}

// EdgeEntry picks a random edge, a random position along it, and a heading
// within ±60° of the inward normal, scaled to speed.
func EdgeEntry(rng *rand.Rand, screen Screen, speed float64) Entry {
	w := float64(screen.Width)
	h := float64(screen.Height)

	var e Entry
	e.Edge = Edge(rng.Intn(4))
	switch e.Edge {
	case EdgeTop:
		e.X = rng.Float64() * w
		e.Y = 0
	case EdgeBottom:
		e.X = rng.Float64() * w
		e.Y = h
	case EdgeLeft:
		e.X = 0
		e.Y = rng.Float64() * h
	case EdgeRight:
		e.X = w
		e.Y = rng.Float64() * h
	}

	angle := e.Edge.inwardNormal() + (rng.Float64()*2-1)*spawnSpread
	e.DX = math.Cos(angle) * speed
	e.DY = math.Sin(angle) * speed
	return e
}
