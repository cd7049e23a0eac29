package score

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ripples/internal/config"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTracker(mod func(*config.Settings)) *Tracker {
	s := config.DefaultSettings()
	s.BaseScore = 100
	s.ChainMultiplier = 1.1
	s.ChainTimeout = time.Second
	s.ChainCountMax = 5
	if mod != nil {
		mod(&s)
	}
	return NewTracker(s)
}

func TestFirstBurstScores110(t *testing.T) {
	tr := newTracker(nil)
	assert.Equal(t, int64(110), tr.Award(t0))
	assert.Equal(t, 1, tr.ChainCount())
	assert.Equal(t, int64(110), tr.Score())
	assert.Equal(t, t0, tr.LastChain())
}

func TestChainGrowsWithinTimeout(t *testing.T) {
	tr := newTracker(nil)
	want := []int64{110, 121, 133}
	now := t0
	for i, w := range want {
		got := tr.Award(now)
		require.Equal(t, i+1, tr.ChainCount())
		assert.Equal(t, int64(math.Floor(100*math.Pow(1.1, float64(i+1)))), got)
		assert.Equal(t, w, got)
		now = now.Add(900 * time.Millisecond)
	}
	assert.Equal(t, int64(110+121+133), tr.Score())
}

func TestChainCapped(t *testing.T) {
	tr := newTracker(func(s *config.Settings) { s.ChainCountMax = 2 })
	now := t0
	var last int64
	for i := 0; i < 6; i++ {
		last = tr.Award(now)
		assert.LessOrEqual(t, tr.ChainCount(), 2)
		now = now.Add(100 * time.Millisecond)
	}
	assert.Equal(t, 2, tr.ChainCount())
	assert.Equal(t, int64(121), last)
}

func TestChainResetsAfterTimeout(t *testing.T) {
	tr := newTracker(nil)
	tr.Award(t0)
	tr.Award(t0.Add(500 * time.Millisecond))
	require.Equal(t, 2, tr.ChainCount())

	got := tr.Award(t0.Add(500*time.Millisecond + time.Second + time.Millisecond))
	assert.Equal(t, 1, tr.ChainCount())
	assert.Equal(t, int64(110), got)
}

func TestChainSurvivesExactTimeout(t *testing.T) {
	tr := newTracker(nil)
	tr.Award(t0)
	tr.Award(t0.Add(time.Second))
	assert.Equal(t, 2, tr.ChainCount(), "gap equal to the timeout keeps the chain")
}

func TestChainActive(t *testing.T) {
	tr := newTracker(nil)
	assert.False(t, tr.ChainActive(t0))
	tr.Award(t0)
	assert.True(t, tr.ChainActive(t0.Add(time.Second)))
	assert.False(t, tr.ChainActive(t0.Add(2*time.Second)))
}

func TestZeroChainMaxAwardsBase(t *testing.T) {
	tr := newTracker(func(s *config.Settings) { s.ChainCountMax = 0 })
	assert.Equal(t, int64(100), tr.Award(t0))
	assert.Equal(t, 0, tr.ChainCount())
}

func TestScoreIsMonotonic(t *testing.T) {
	tr := newTracker(nil)
	prev := tr.Score()
	now := t0
	for i := 0; i < 20; i++ {
		tr.Award(now)
		assert.Greater(t, tr.Score(), prev)
		prev = tr.Score()
		now = now.Add(time.Duration(i*300) * time.Millisecond)
	}
}

func TestHugeAwardsSaturate(t *testing.T) {
	tr := newTracker(func(s *config.Settings) {
		s.ChainMultiplier = 1e10
		s.ChainCountMax = 40
	})

	assert.Equal(t, int64(1_000_000_000_000), tr.Award(t0))
	second := tr.Award(t0.Add(100 * time.Millisecond))
	assert.Equal(t, int64(math.MaxInt64)-1_000_000_000_000, second)
	assert.Equal(t, int64(math.MaxInt64), tr.Score())

	prev := tr.Score()
	for i := 2; i < 45; i++ {
		award := tr.Award(t0.Add(time.Duration(i) * 100 * time.Millisecond))
		assert.GreaterOrEqual(t, award, int64(0))
		assert.GreaterOrEqual(t, tr.Score(), prev)
		prev = tr.Score()
	}
	assert.Equal(t, int64(math.MaxInt64), tr.Score())
	assert.Equal(t, 40, tr.ChainCount())
}
