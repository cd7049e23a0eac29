// Package loop runs one game session: the spawn and update timers, click
// handling, collision detection and scoring over the ring and point
// collections.
package loop

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomz197/ripples/internal/config"
	"github.com/tomz197/ripples/internal/object"
	"github.com/tomz197/ripples/internal/score"
)

// Session owns every live entity of one game together with its score.
// It is not safe for concurrent use: all calls must come from one goroutine.
type Session struct {
	settings config.Settings
	rng      *rand.Rand
	log      logrus.FieldLogger
	onBurst  func(Burst)

	state  State
	screen object.Screen
	now    time.Time
	nextID uint64

	rings    *object.Collection
	points   *object.Collection
	tracker  *score.Tracker
	detector CollisionDetector
	events   eventQueue
	popups   []Popup

	spawnTimer  *timer
	updateTimer *timer
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for spawning.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) { s.log = log }
}

// WithBurstHandler registers fn to be called after every burst.
func WithBurstHandler(fn func(Burst)) Option {
	return func(s *Session) { s.onBurst = fn }
}

// NewSession creates an uninitialized session. Call Init before use.
func NewSession(settings config.Settings, opts ...Option) *Session {
	s := &Session{
		settings: settings,
		rings:    object.NewCollection(),
		points:   object.NewCollection(),
		tracker:  score.NewTracker(settings),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

// Init starts the session on a play surface of the given size. Calling it
// again restarts the timers without clearing entities or score.
func (s *Session) Init(now time.Time, screen object.Screen) {
	s.screen = screen
	s.now = now
	if s.spawnTimer == nil {
		s.spawnTimer = newTimer(s.settings.SpawnInterval, now)
		s.updateTimer = newTimer(s.settings.UpdateInterval, now)
	} else {
		s.spawnTimer.reset(now)
		s.updateTimer.reset(now)
	}
	s.state = StateRunning
	s.log.WithFields(logrus.Fields{
		"width":  screen.Width,
		"height": screen.Height,
	}).Debug("session started")
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Settings returns the session's settings.
func (s *Session) Settings() config.Settings {
	return s.settings
}

// Resize changes the play surface used for spawn placement.
func (s *Session) Resize(screen object.Screen) {
	s.screen = screen
}

// Screen returns the current play surface.
func (s *Session) Screen() object.Screen {
	return s.screen
}

// Rings returns the live ring collection. It must only be used from the
// session's goroutine.
func (s *Session) Rings() *object.Collection {
	return s.rings
}

// Points returns the live point collection. It must only be used from the
// session's goroutine.
func (s *Session) Points() *object.Collection {
	return s.points
}

// Tracker returns the score tracker.
func (s *Session) Tracker() *score.Tracker {
	return s.tracker
}

func (s *Session) id() uint64 {
	s.nextID++
	return s.nextID
}

// Click creates a white ring at (x, y). It returns false before Init.
func (s *Session) Click(x, y float64, now time.Time) (uint64, bool) {
	if s.state != StateRunning {
		return 0, false
	}
	r := s.AddRing(object.VariantWhite, x, y, now)
	return r.ID, true
}

// AddRing creates a ring of the given variant at (x, y).
func (s *Session) AddRing(v object.Variant, x, y float64, now time.Time) *object.Entity {
	r := object.NewRing(s.id(), v, x, y, now, object.RingConfig(s.settings, v))
	s.rings.Add(r)
	return r
}

// AddPoint creates a point of the given variant at (x, y) moving by
// (dx, dy) px/ms. The point cap is not applied.
func (s *Session) AddPoint(v object.Variant, x, y, dx, dy float64, now time.Time) *object.Entity {
	p := object.NewPoint(s.id(), v, x, y, dx, dy, now, object.PointConfig(s.settings, v))
	s.points.Add(p)
	return p
}

// Advance fires every timer due at or before now, in chronological order.
// A timer that fell too far behind fires once at now instead of replaying
// every missed interval.
func (s *Session) Advance(now time.Time) {
	if s.state != StateRunning {
		return
	}
	spawnLate := s.spawnTimer.resync(now)
	updateLate := s.updateTimer.resync(now)
	if spawnLate || updateLate {
		s.log.WithField("at", now).Debug("timers resynchronized")
	}
	for {
		spawnAt := s.spawnTimer.next
		updateAt := s.updateTimer.next
		switch {
		case !spawnAt.After(now) && !spawnAt.After(updateAt):
			s.SpawnTick(s.spawnTimer.pop())
		case !updateAt.After(now):
			s.UpdateTick(s.updateTimer.pop())
		default:
			s.expirePopups(now)
			s.now = laterTime(s.now, now)
			return
		}
	}
}

// SpawnTick creates PointFrequency white points entering from random edges.
// Points beyond PointMax are dropped.
func (s *Session) SpawnTick(now time.Time) {
	if s.state != StateRunning {
		return
	}
	s.now = laterTime(s.now, now)
	for i := 0; i < s.settings.PointFrequency; i++ {
		if s.points.Len() >= s.settings.PointMax {
			return
		}
		e := object.EdgeEntry(s.rng, s.screen, s.settings.PointSpeed)
		s.AddPoint(object.VariantWhite, e.X, e.Y, e.DX, e.DY, now)
	}
}

// UpdateTick advances every animation to now, removes completed entities,
// bursts every point swept by a ring edge and scores it.
func (s *Session) UpdateTick(now time.Time) {
	if s.state != StateRunning {
		return
	}
	s.now = laterTime(s.now, now)

	rings := s.rings.Snapshot()
	points := s.points.Snapshot()
	for _, r := range rings {
		if r.Step(now) {
			s.events.push(eventRingDone, r.ID)
		}
	}
	for _, p := range points {
		if p.Step(now) {
			s.events.push(eventPointDone, p.ID)
		}
	}

	for _, id := range s.detector.Detect(rings, points) {
		s.events.push(eventBurst, id)
	}

	var ringsDone, pointsDone bool
	s.events.drain(func(ev event) {
		switch ev.kind {
		case eventRingDone:
			ringsDone = true
		case eventPointDone:
			pointsDone = true
		case eventBurst:
			s.burst(ev.id, now)
		}
	})

	// Completed entities go in one compaction pass per collection.
	if ringsDone {
		s.rings.RemoveWhere(completed)
	}
	if pointsDone {
		s.points.RemoveWhere(completed)
	}
	s.expirePopups(now)
}

// Burst bursts the point with the given id as if a ring had hit it.
// Unknown or already removed ids are ignored.
func (s *Session) Burst(id uint64, now time.Time) bool {
	if s.state != StateRunning {
		return false
	}
	s.now = laterTime(s.now, now)
	return s.burst(id, now)
}

func (s *Session) burst(id uint64, now time.Time) bool {
	p, ok := s.points.Get(id)
	if !ok {
		return false
	}
	s.points.Remove(id)

	award := s.tracker.Award(now)
	ring := s.AddRing(object.VariantWhite, p.X, p.Y, now)

	b := Burst{
		PointID: id,
		RingID:  ring.ID,
		X:       p.X,
		Y:       p.Y,
		Award:   award,
		Chain:   s.tracker.ChainCount(),
		Score:   s.tracker.Score(),
		At:      now,
	}
	s.popups = append(s.popups, Popup{X: b.X, Y: b.Y, Award: award, Chain: b.Chain, Until: now.Add(popupDuration)})

	s.log.WithFields(logrus.Fields{
		"point": id,
		"award": award,
		"chain": b.Chain,
	}).Debug("point burst")
	if s.onBurst != nil {
		s.onBurst(b)
	}
	return true
}

func completed(e *object.Entity) bool {
	return e.Done()
}

func (s *Session) expirePopups(now time.Time) {
	kept := s.popups[:0]
	for _, p := range s.popups {
		if now.Before(p.Until) {
			kept = append(kept, p)
		}
	}
	clear(s.popups[len(kept):])
	s.popups = kept
}

// Snapshot returns an immutable view of the session as of the last tick.
func (s *Session) Snapshot() *Snapshot {
	shapes := make([]object.Shape, 0, s.rings.Len()+s.points.Len())
	shapes = s.rings.Shapes(shapes)
	shapes = s.points.Shapes(shapes)

	var popups []Popup
	if len(s.popups) > 0 {
		popups = make([]Popup, len(s.popups))
		copy(popups, s.popups)
	}

	return &Snapshot{
		State:       s.state,
		Shapes:      shapes,
		Popups:      popups,
		Score:       s.tracker.Score(),
		Chain:       s.tracker.ChainCount(),
		ChainActive: s.tracker.ChainActive(s.now),
		Screen:      s.screen,
		At:          s.now,
	}
}

func laterTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
