package loop

import (
	"github.com/tomz197/ripples/internal/object"
	"github.com/tomz197/ripples/internal/physics"
)

// CollisionDetector finds points swept by a ring's edge.
// The hit buffer is reused between scans to avoid per-tick allocations.
type CollisionDetector struct {
	hits []uint64
}

// Detect returns the IDs of the points hit by at least one ring, in point
// order. A point appears at most once no matter how many rings hit it.
// Completed entities are skipped. The returned slice is valid until the
// next call.
func (d *CollisionDetector) Detect(rings, points []*object.Entity) []uint64 {
	d.hits = d.hits[:0]
	for _, p := range points {
		if p.Done() {
			continue
		}
		for _, r := range rings {
			if r.Done() {
				continue
			}
			if physics.RingEdgeHit(r.X, r.Y, r.Radius, p.X, p.Y, p.Radius) {
				d.hits = append(d.hits, p.ID)
				break
			}
		}
	}
	return d.hits
}
