// Package score implements chained scoring: bursts that follow each other
// within a timeout multiply the award exponentially, up to a capped exponent.
package score

import (
	"math"
	"time"

	"github.com/tomz197/ripples/internal/config"
)

// Tracker holds the cumulative score and the current chain.
type Tracker struct {
	baseScore  float64
	multiplier float64
	countMax   int
	timeout    time.Duration

	score     int64
	chain     int
	lastChain time.Time
}

// NewTracker creates a tracker using the scoring fields of s.
func NewTracker(s config.Settings) *Tracker {
	return &Tracker{
		baseScore:  s.BaseScore,
		multiplier: s.ChainMultiplier,
		countMax:   s.ChainCountMax,
		timeout:    s.ChainTimeout,
	}
}

// Award records a burst at now and returns the points it earned.
// The chain resets when more than the timeout has passed since the last
// burst, then grows by one (capped).
func (t *Tracker) Award(now time.Time) int64 {
	if now.Sub(t.lastChain) > t.timeout {
		t.chain = 0
	}
	t.chain = min(t.chain+1, t.countMax)
	t.lastChain = now

	delta := t.clamp(math.Floor(t.baseScore * math.Pow(t.multiplier, float64(t.chain))))
	t.score += delta
	return delta
}

// clamp converts an award to int64, saturating so the cumulative score
// never exceeds math.MaxInt64.
func (t *Tracker) clamp(award float64) int64 {
	room := math.MaxInt64 - t.score
	switch {
	case math.IsNaN(award) || award <= 0:
		return 0
	case award >= float64(room):
		return room
	}
	return int64(award)
}

// Score returns the cumulative score.
func (t *Tracker) Score() int64 {
	return t.score
}

// ChainCount returns the current chain length.
func (t *Tracker) ChainCount() int {
	return t.chain
}

// LastChain returns the time of the last burst.
func (t *Tracker) LastChain() time.Time {
	return t.lastChain
}

// ChainActive reports whether a burst at now would extend the current chain.
func (t *Tracker) ChainActive(now time.Time) bool {
	return t.chain > 0 && now.Sub(t.lastChain) <= t.timeout
}
