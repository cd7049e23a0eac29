package loop

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/ripples/internal/config"
	"github.com/tomz197/ripples/internal/object"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func testSettings() config.Settings {
	s := config.DefaultSettings()
	s.RingDuration = time.Second
	s.RingSpeed = 0.1
	s.RingInitRadius = 1
	return s
}

func newTestSession(t *testing.T, s config.Settings, opts ...Option) (*Session, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1))), WithLogger(log)}, opts...)
	sess := NewSession(s, opts...)
	sess.Init(t0, object.NewScreen(640, 400))
	require.Equal(t, StateRunning, sess.State())
	return sess, hook
}

func TestRingLifecycle(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())

	id, ok := sess.Click(100, 100, t0)
	require.True(t, ok)
	ring, ok := sess.Rings().Get(id)
	require.True(t, ok)
	assert.Equal(t, object.VariantWhite, ring.Variant)
	assert.Equal(t, 1.0, ring.Radius)

	sess.UpdateTick(at(500))
	assert.InDelta(t, 50.5, ring.Radius, 1e-9)
	assert.Equal(t, 1, sess.Rings().Len())

	sess.UpdateTick(at(1000))
	assert.InDelta(t, 100, ring.Radius, 1e-9)
	assert.InDelta(t, 0, ring.Opacity, 1e-9)
	assert.Equal(t, 0, sess.Rings().Len(), "completed ring is removed")
}

func TestCompletedEntitiesRemovedTogether(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())

	var keptPoints, keptRings []uint64
	for i := 0; i < 6; i++ {
		born := t0
		if i%2 == 1 {
			born = at(5000)
		}
		p := sess.AddPoint(object.VariantWhite, float64(10+10*i), 10, 0, 0, born)
		if i%2 == 1 {
			keptPoints = append(keptPoints, p.ID)
		}
	}
	for i := 0; i < 4; i++ {
		born := at(14000)
		if i%2 == 1 {
			born = at(14500)
		}
		r := sess.AddRing(object.VariantWhite, 600, 380, born)
		if i%2 == 1 {
			keptRings = append(keptRings, r.ID)
		}
	}

	sess.UpdateTick(at(15000))

	ids := func(c *object.Collection) []uint64 {
		var out []uint64
		for _, e := range c.Snapshot() {
			out = append(out, e.ID)
		}
		return out
	}
	assert.Equal(t, keptPoints, ids(sess.Points()))
	assert.Equal(t, keptRings, ids(sess.Rings()))
	for _, id := range keptPoints {
		assert.True(t, sess.Points().Contains(id))
	}
	assert.Equal(t, int64(0), sess.Tracker().Score())
}

func TestConcentricRingNeverHits(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	sess.AddPoint(object.VariantWhite, 100, 100, 0, 0, t0)
	sess.AddRing(object.VariantWhite, 100, 100, t0)

	for ms := 30; ms <= 1000; ms += 30 {
		sess.UpdateTick(at(ms))
	}
	assert.Equal(t, 1, sess.Points().Len())
	assert.Equal(t, int64(0), sess.Tracker().Score())
}

func TestRingEdgeBurstsPoint(t *testing.T) {
	var bursts []Burst
	sess, hook := newTestSession(t, testSettings(), WithBurstHandler(func(b Burst) {
		bursts = append(bursts, b)
	}))
	sess.AddRing(object.VariantWhite, 0, 100, t0)
	p := sess.AddPoint(object.VariantWhite, 100, 100, 0, 0, t0)

	// Ring radius 90.1 at 900ms puts the point within the edge window.
	sess.UpdateTick(at(900))

	assert.False(t, sess.Points().Contains(p.ID))
	assert.Equal(t, 2, sess.Rings().Len())
	assert.Equal(t, 1, sess.Tracker().ChainCount())
	assert.Equal(t, int64(110), sess.Tracker().Score())

	require.Len(t, bursts, 1)
	b := bursts[0]
	assert.Equal(t, p.ID, b.PointID)
	assert.Equal(t, int64(110), b.Award)
	assert.Equal(t, at(900), b.At)

	spawned, ok := sess.Rings().Get(b.RingID)
	require.True(t, ok)
	assert.Equal(t, 100.0, spawned.X)
	assert.Equal(t, 100.0, spawned.Y)
	assert.Equal(t, 1.0, spawned.Radius)

	snap := sess.Snapshot()
	assert.Equal(t, int64(110), snap.Score)
	assert.Equal(t, 1, snap.Chain)
	assert.True(t, snap.ChainActive)
	require.Len(t, snap.Popups, 1)
	assert.Equal(t, int64(110), snap.Popups[0].Award)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "point burst", hook.LastEntry().Message)
}

func TestPointBurstsOncePerTick(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	sess.AddRing(object.VariantWhite, 0, 100, t0)
	sess.AddRing(object.VariantWhite, 200, 100, t0)
	sess.AddPoint(object.VariantWhite, 100, 100, 0, 0, t0)

	sess.UpdateTick(at(900))

	assert.Equal(t, int64(110), sess.Tracker().Score())
	assert.Equal(t, 1, sess.Tracker().ChainCount())
	assert.Equal(t, 3, sess.Rings().Len())
}

func TestChainAcrossPointsInOneTick(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	sess.AddRing(object.VariantWhite, 0, 100, t0)
	sess.AddPoint(object.VariantWhite, 100, 100, 0, 0, t0)
	sess.AddPoint(object.VariantWhite, 0, 200, 0, 0, t0)

	sess.UpdateTick(at(900))

	assert.Equal(t, 2, sess.Tracker().ChainCount())
	assert.Equal(t, int64(110+121), sess.Tracker().Score())
	assert.Equal(t, 0, sess.Points().Len())
	assert.Equal(t, 3, sess.Rings().Len())
}

func TestBurstIsIdempotent(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	p := sess.AddPoint(object.VariantWhite, 50, 50, 0, 0, t0)

	assert.False(t, sess.Burst(999, at(10)))
	assert.Equal(t, int64(0), sess.Tracker().Score())

	assert.True(t, sess.Burst(p.ID, at(10)))
	assert.False(t, sess.Burst(p.ID, at(20)))
	assert.Equal(t, int64(110), sess.Tracker().Score())
	assert.Equal(t, 1, sess.Rings().Len())
}

func TestPointExpires(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	sess.AddPoint(object.VariantWhite, 10, 10, 0.01, 0, t0)

	sess.UpdateTick(at(14990))
	assert.Equal(t, 1, sess.Points().Len())
	sess.UpdateTick(at(15000))
	assert.Equal(t, 0, sess.Points().Len())
	assert.Equal(t, int64(0), sess.Tracker().Score())
}

func TestSpawnCap(t *testing.T) {
	s := testSettings()
	s.PointMax = 3
	s.PointFrequency = 2
	sess, _ := newTestSession(t, s)

	sess.SpawnTick(at(1000))
	assert.Equal(t, 2, sess.Points().Len())
	sess.SpawnTick(at(2000))
	assert.Equal(t, 3, sess.Points().Len())
	sess.SpawnTick(at(3000))
	assert.Equal(t, 3, sess.Points().Len())
}

func TestSpawnedPointsEnterFromEdges(t *testing.T) {
	s := testSettings()
	s.PointFrequency = 20
	sess, _ := newTestSession(t, s)

	sess.SpawnTick(at(0))
	require.Equal(t, 20, sess.Points().Len())
	for _, p := range sess.Points().Snapshot() {
		onEdge := p.X == 0 || p.X == 640 || p.Y == 0 || p.Y == 400
		assert.True(t, onEdge, "point %d at (%v, %v)", p.ID, p.X, p.Y)
		assert.InDelta(t, s.PointSpeed, math.Hypot(p.DX, p.DY), 1e-12)
		assert.Equal(t, "#FFF", p.Config.FillColor)
	}
}

func TestAdvanceRunsTimers(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())

	for ms := 10; ms <= 3000; ms += 10 {
		sess.Advance(at(ms))
	}
	assert.Equal(t, 3, sess.Points().Len())
	assert.Equal(t, at(3000), sess.Snapshot().At)

	// The first point has been animated by the update ticks since it spawned.
	first := sess.Points().Snapshot()[0]
	assert.Equal(t, at(1000), first.Born)
	assert.InDelta(t, first.OriginX+first.DX*2000, first.X, 1e-9)
}

func TestAdvanceResyncsAfterStall(t *testing.T) {
	sess, hook := newTestSession(t, testSettings())

	stalled := t0.Add(time.Hour)
	sess.Advance(stalled)

	assert.Equal(t, 1, sess.Points().Len(), "spawn fires once instead of replaying")
	assert.Equal(t, stalled.Add(30*time.Millisecond), sess.updateTimer.next)
	assert.Equal(t, stalled.Add(time.Second), sess.spawnTimer.next)

	var resynced bool
	for _, e := range hook.AllEntries() {
		if e.Message == "timers resynchronized" {
			resynced = true
		}
	}
	assert.True(t, resynced)
}

func TestPopupsExpire(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	p := sess.AddPoint(object.VariantWhite, 50, 50, 0, 0, t0)
	require.True(t, sess.Burst(p.ID, at(100)))
	require.Len(t, sess.Snapshot().Popups, 1)

	sess.UpdateTick(at(100).Add(popupDuration))
	assert.Empty(t, sess.Snapshot().Popups)
}

func TestNoopsBeforeInit(t *testing.T) {
	sess := NewSession(testSettings(), WithRand(rand.New(rand.NewSource(1))))
	assert.Equal(t, StateUninitialized, sess.State())

	_, ok := sess.Click(10, 10, t0)
	assert.False(t, ok)
	sess.SpawnTick(t0)
	sess.UpdateTick(t0)
	sess.Advance(t0.Add(time.Minute))
	assert.False(t, sess.Burst(1, t0))

	snap := sess.Snapshot()
	assert.Equal(t, StateUninitialized, snap.State)
	assert.Empty(t, snap.Shapes)
	assert.Equal(t, 0, sess.Points().Len())
}

func TestSnapshotOrdersRingsBeforePoints(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	sess.AddPoint(object.VariantWhite, 10, 10, 0, 0, t0)
	sess.AddRing(object.VariantWhite, 300, 300, t0)

	snap := sess.Snapshot()
	require.Len(t, snap.Shapes, 2)
	assert.Equal(t, object.KindRing, snap.Shapes[0].Kind)
	assert.Equal(t, object.KindPoint, snap.Shapes[1].Kind)

	// Later ticks do not change an existing snapshot.
	sess.UpdateTick(at(500))
	assert.Equal(t, 1.0, snap.Shapes[0].Radius)
}

func TestResize(t *testing.T) {
	sess, _ := newTestSession(t, testSettings())
	sess.Resize(object.NewScreen(100, 50))
	sess.SpawnTick(t0)
	p := sess.Points().Snapshot()[0]
	assert.True(t, p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 50)
	assert.Equal(t, 100, sess.Snapshot().Screen.Width)
}
