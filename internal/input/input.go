// Package input turns raw terminal bytes into key presses and mouse clicks.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// maxPending bounds an unterminated escape sequence carried between reads.
const maxPending = 32

// Click is a left mouse button press at a 1-based terminal position.
type Click struct {
	Col int
	Row int
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Space   bool
	Enter   bool
	Escape  bool
	Restart bool
	Mute    bool
	Clicks  []Click
	Pressed []byte
}

// Active reports whether the frame carried any user activity.
func (in Input) Active() bool {
	return len(in.Pressed) > 0
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit    time.Time
	space   time.Time
	enter   time.Time
	escape  time.Time
	restart time.Time
	mute    time.Time
}

// Stream delivers input bytes via a channel and tracks key state between frames.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Reset forgets held keys, so a press that started a screen does not leak
// into the next one.
func Reset(s *Stream) {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	now := time.Now()
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	clicks, rest := parse(buf, &s.state, now)
	if len(rest) > 0 && len(rest) <= maxPending {
		s.pending = append([]byte(nil), rest...)
	}

	in := Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Space:   now.Sub(s.state.space) < keyHoldDuration,
		Enter:   now.Sub(s.state.enter) < keyHoldDuration,
		Escape:  now.Sub(s.state.escape) < keyHoldDuration,
		Restart: now.Sub(s.state.restart) < keyHoldDuration,
		Mute:    now.Sub(s.state.mute) < keyHoldDuration,
		Clicks:  clicks,
		Pressed: buf[:len(buf)-len(rest)],
	}
	if s.closed {
		in.Quit = true
	}
	return in
}

// parse consumes buf, updating key state and collecting mouse clicks.
// rest is an SGR mouse sequence that has not been terminated yet.
func parse(buf []byte, st *keyState, now time.Time) (clicks []Click, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if buf[i+2] == '<' {
				click, n, ok := parseSGRMouse(buf[i+3:])
				if n < 0 {
					return clicks, buf[i:]
				}
				if ok {
					clicks = append(clicks, click)
				}
				i += 2 + n
				continue
			}
			// Other CSI sequences (arrows, focus) are not bound.
			j := i + 2
			for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
				j++
			}
			i = j
			continue
		}
		if b == '\x1b' && i+2 >= len(buf) && i+1 < len(buf) && buf[i+1] == '[' {
			return clicks, buf[i:]
		}

		applyByteToState(st, b, now)
	}
	return clicks, nil
}

// parseSGRMouse decodes "b;col;row" followed by 'M' (press) or 'm'
// (release). n is the number of bytes consumed, or -1 when the sequence is
// not terminated yet. ok is true for a plain left button press.
func parseSGRMouse(buf []byte) (click Click, n int, ok bool) {
	end := bytes.IndexAny(buf, "Mm")
	if end < 0 {
		return Click{}, -1, false
	}
	fields := bytes.Split(buf[:end], []byte{';'})
	if len(fields) != 3 {
		return Click{}, end + 1, false
	}
	var v [3]int
	for k, f := range fields {
		x, err := strconv.Atoi(string(f))
		if err != nil {
			return Click{}, end + 1, false
		}
		v[k] = x
	}
	// Low bits select the button; 32 flags motion and 64 the wheel.
	// Shift, meta and ctrl (4, 8, 16) are ignored.
	button := v[0] &^ (4 | 8 | 16)
	if buf[end] != 'M' || button != 0 {
		return Click{}, end + 1, false
	}
	return Click{Col: v[1], Row: v[2]}, end + 1, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	case 'r', 'R':
		state.restart = now
	case 'm', 'M':
		state.mute = now
	}
}
