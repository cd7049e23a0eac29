package loop

import "time"

type eventKind int

const (
	eventBurst eventKind = iota
	eventRingDone
	eventPointDone
)

type event struct {
	kind eventKind
	id   uint64
}

// eventQueue collects removals raised while the collections are being
// scanned. It is drained once per update tick, after the scan.
type eventQueue struct {
	items []event
}

func (q *eventQueue) push(kind eventKind, id uint64) {
	q.items = append(q.items, event{kind: kind, id: id})
}

func (q *eventQueue) drain(fn func(event)) {
	for i := 0; i < len(q.items); i++ {
		fn(q.items[i])
	}
	q.items = q.items[:0]
}

// Burst describes one point burst and the score it earned.
type Burst struct {
	PointID uint64
	RingID  uint64 // ring spawned at the burst position
	X, Y    float64
	Award   int64
	Chain   int
	Score   int64 // cumulative score after the award
	At      time.Time
}
