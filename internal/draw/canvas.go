package draw

import (
	"image/color"
	"io"
	"math"
	"strings"
)

// pixel is one sub-pixel of the canvas. Zero intensity means unset.
type pixel struct {
	intensity float64
	color     color.RGBA
}

// cell is what was last written to one terminal cell.
type cell struct {
	ch    rune
	color color.RGBA
}

// dimThreshold is the intensity below which a cell is drawn with a shade
// character instead of half blocks.
const dimThreshold = 0.75

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// It maps a logical coordinate space onto the terminal and only rewrites cells
// that changed since the previous Render.
type Canvas struct {
	termWidth      int // Actual terminal columns
	termHeight     int // Actual terminal rows
	subPixelHeight int // termHeight * 2
	pixels         []pixel

	prev      []cell // last rendered cells, row-major
	prevValid bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets used to center the render area.
	offsetCol int
	offsetRow int
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game shapes.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]pixel, subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.prevValid = false
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prevValid = false
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.prevValid = false
}

// Invalidate marks width cells starting at the 1-based canvas position as
// dirty, so text drawn over them is erased by the next Render.
func (c *Canvas) Invalidate(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.prev[r*c.termWidth+x].ch = 0
		}
	}
}

// plot sets a pixel at actual terminal coordinates (no scaling). Brighter
// writes win.
func (c *Canvas) plot(x, y int, s Style) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	p := &c.pixels[y*c.termWidth+x]
	if s.Intensity >= p.intensity {
		p.intensity = s.Intensity
		p.color = s.Color
	}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, s Style) {
	c.plot(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), s)
}

// Lit reports whether the pixel at logical coordinates is set.
func (c *Canvas) Lit(x, y float64) bool {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	if px < 0 || px >= c.termWidth || py < 0 || py >= c.subPixelHeight {
		return false
	}
	return c.pixels[py*c.termWidth+px].intensity > 0
}

// DrawCircle draws a circle outline, or a disk when s.Filled, centered at
// logical (cx, cy). Scaling is applied per axis so circles stay round when
// the logical space and the terminal differ in aspect.
func (c *Canvas) DrawCircle(cx, cy, r float64, s Style) {
	if r < 0 || s.Intensity <= 0 {
		return
	}
	pcx := cx * c.scaleX
	pcy := cy * c.scaleY
	rx := r * c.scaleX
	ry := r * c.scaleY

	if s.Filled {
		c.fillEllipse(pcx, pcy, rx, ry, s)
		return
	}

	// About one sample per pixel of circumference, rounded up to a multiple
	// of four so the cardinal points are always plotted.
	steps := 4 * int(math.Ceil(math.Pi/2*math.Max(rx, ry)))
	if steps < 8 {
		steps = 8
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.plot(int(math.Round(pcx+math.Cos(a)*rx)), int(math.Round(pcy+math.Sin(a)*ry)), s)
	}
}

// fillEllipse fills an axis-aligned ellipse in pixel space, scanline by scanline.
func (c *Canvas) fillEllipse(pcx, pcy, rx, ry float64, s Style) {
	if ry < 0.5 || rx < 0.5 {
		c.plot(int(math.Round(pcx)), int(math.Round(pcy)), s)
		return
	}
	yStart := int(math.Floor(pcy - ry))
	yEnd := int(math.Ceil(pcy + ry))
	for y := yStart; y <= yEnd; y++ {
		dy := (float64(y) - pcy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		xStart := int(math.Round(pcx - half))
		xEnd := int(math.Round(pcx + half))
		for x := xStart; x <= xEnd; x++ {
			c.plot(x, y, s)
		}
	}
}

// cellAt resolves the two sub-pixels of a terminal cell into a character.
func (c *Canvas) cellAt(col, row int) cell {
	top := c.pixels[row*2*c.termWidth+col]
	var bottom pixel
	if row*2+1 < c.subPixelHeight {
		bottom = c.pixels[(row*2+1)*c.termWidth+col]
	}

	bright := top
	if bottom.intensity > bright.intensity {
		bright = bottom
	}

	switch {
	case bright.intensity <= 0:
		return cell{ch: BlockEmpty}
	case bright.intensity < dimThreshold:
		return cell{ch: ShadeLevel(bright.intensity), color: bright.color}
	case top.intensity > 0 && bottom.intensity > 0:
		return cell{ch: BlockFull, color: bright.color}
	case top.intensity > 0:
		return cell{ch: BlockUpperHalf, color: top.color}
	default:
		return cell{ch: BlockLowerHalf, color: bottom.color}
	}
}

// Render writes every cell that changed since the previous Render.
func (c *Canvas) Render(cw *ChunkWriter) {
	var lastColor color.RGBA
	colorSet := false

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			next := c.cellAt(col, row)
			idx := row*c.termWidth + col
			if c.prevValid && c.prev[idx] == next {
				continue
			}
			c.prev[idx] = next

			cw.MoveCursor(col+1, row+1)
			if next.ch != BlockEmpty && (!colorSet || next.color != lastColor) {
				cw.SetColor(next.color)
				lastColor = next.color
				colorSet = true
			}
			cw.WriteRune(next.ch)
		}
	}
	if colorSet {
		cw.ResetColor()
	}
	c.prevValid = true
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	bw := NewChunkWriter(w, 0, 0)
	horizontal := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			bw.WriteAt(left, top, "┌"+horizontal+"┐")
			bw.WriteAt(left, bottom, "└"+horizontal+"┘")
		} else {
			bw.WriteAt(c.offsetCol+1, top, horizontal)
			bw.WriteAt(c.offsetCol+1, bottom, horizontal)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			bw.WriteAt(left, row, "│")
			bw.WriteAt(right, row, "│")
		}
	}
	_ = bw.Flush()
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based terminal position (as reported by
// mouse events, offset included) to the logical coordinate at the center of
// that cell. ok is false when the position is outside the canvas.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	cx := col - 1 - c.offsetCol
	cy := row - 1 - c.offsetRow
	if cx < 0 || cx >= c.termWidth || cy < 0 || cy >= c.termHeight {
		return 0, 0, false
	}
	x = (float64(cx) + 0.5) / c.scaleX
	y = (float64(cy)*2 + 1) / c.scaleY
	return x, y, true
}
