// Package audio plays the burst chime. The pitch climbs a semitone per chain
// step so long chains are audible.
package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	chimeDuration = 120 * time.Millisecond

	baseFrequency = 440.0 // A4, played for an unchained burst
	maxSemitones  = 24
)

// ChainFrequency returns the chime pitch in Hz for a burst at the given
// chain count.
func ChainFrequency(chain int) float64 {
	if chain < 0 {
		chain = 0
	}
	if chain > maxSemitones {
		chain = maxSemitones
	}
	return baseFrequency * math.Pow(2, float64(chain)/12)
}

// Player mixes chimes into the system speaker.
// The zero value is not usable; create one with NewPlayer.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	ready  bool
	muted  atomic.Bool
}

// NewPlayer creates a player with a linear volume in (0, 1].
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker. A player that failed to init stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Chime plays one burst tone for the given chain count.
func (p *Player) Chime(chain int) {
	if p.muted.Load() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}

	s, err := chime(sampleRate, chain, p.volume)
	if err != nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// ToggleMute flips the mute state and returns the new one.
func (p *Player) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether chimes are suppressed.
func (p *Player) Muted() bool {
	return p.muted.Load()
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
}

// chime builds a short sine tone with a linear release.
func chime(rate beep.SampleRate, chain int, volume float64) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, ChainFrequency(chain))
	if err != nil {
		return nil, err
	}
	n := rate.N(chimeDuration)
	s := &release{streamer: beep.Take(n, tone), total: n}
	return newVolume(s, volume), nil
}

// release fades a finite streamer linearly to silence.
type release struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func (r *release) Stream(samples [][2]float64) (int, bool) {
	n, ok := r.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		v := 1 - float64(r.pos)/float64(r.total)
		if v < 0 {
			v = 0
		}
		samples[i][0] *= v
		samples[i][1] *= v
		r.pos++
	}
	return n, ok
}

func (r *release) Err() error { return r.streamer.Err() }

// newVolume wraps s at a linear volume; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
