package loop

import "time"

// maxCatchUp is the number of overdue intervals a timer replays before it
// gives up and resynchronizes to the current time.
const maxCatchUp = 8

// timer is a periodic trigger driven by an external clock.
type timer struct {
	interval time.Duration
	next     time.Time
}

func newTimer(interval time.Duration, now time.Time) *timer {
	return &timer{interval: interval, next: now.Add(interval)}
}

// overdue returns how many firings are due at or before now.
func (t *timer) overdue(now time.Time) int {
	if now.Before(t.next) {
		return 0
	}
	return int(now.Sub(t.next)/t.interval) + 1
}

// resync collapses more than maxCatchUp overdue firings into a single one
// at now and reports whether it did.
func (t *timer) resync(now time.Time) bool {
	if t.overdue(now) <= maxCatchUp {
		return false
	}
	t.next = now
	return true
}

// pop returns the next firing instant and schedules the following one.
func (t *timer) pop() time.Time {
	at := t.next
	t.next = t.next.Add(t.interval)
	return at
}

func (t *timer) reset(now time.Time) {
	t.next = now.Add(t.interval)
}
