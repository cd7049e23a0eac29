package object

import (
	"github.com/tomz197/ripples/internal/draw"
)

// Text is a simple drawable text object.
// Coordinates are 1-based canvas positions.
type Text struct {
	X     int
	Y     int
	Value string
}

// Draw writes the text at its position and returns the number of cells
// covered, so the caller can invalidate them on the canvas.
func (t Text) Draw(cw *draw.ChunkWriter) int {
	if t.Value == "" {
		return 0
	}
	x := t.X
	y := t.Y
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	cw.WriteAt(x, y, t.Value)
	return len([]rune(t.Value))
}
