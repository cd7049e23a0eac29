package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/ripples/internal/object"
)

func TestCollisionDetector(t *testing.T) {
	ringCfg := object.Config{InitRadius: 94, Duration: time.Second}
	pointCfg := object.Config{Radius: 6, Duration: time.Second}

	concentric := object.NewRing(1, object.VariantWhite, 100, 100, t0, ringCfg)
	edge := object.NewRing(2, object.VariantWhite, 0, 100, t0, object.Config{InitRadius: 100, Duration: time.Second})
	also := object.NewRing(3, object.VariantWhite, 200, 100, t0, object.Config{InitRadius: 100, Duration: time.Second})
	p := object.NewPoint(10, object.VariantWhite, 100, 100, 0, 0, t0, pointCfg)
	far := object.NewPoint(11, object.VariantWhite, 600, 350, 0, 0, t0, pointCfg)

	var d CollisionDetector
	assert.Empty(t, d.Detect([]*object.Entity{concentric}, []*object.Entity{p, far}))
	assert.Equal(t, []uint64{10}, d.Detect([]*object.Entity{concentric, edge, also}, []*object.Entity{p, far}))
}

func TestCollisionDetectorSkipsCompleted(t *testing.T) {
	ring := object.NewRing(1, object.VariantWhite, 0, 100, t0, object.Config{InitRadius: 100, Radius: 100, Duration: time.Second})
	p := object.NewPoint(10, object.VariantWhite, 100, 100, 0, 0, t0, object.Config{Radius: 6, Duration: 5 * time.Second})

	var d CollisionDetector
	assert.Len(t, d.Detect([]*object.Entity{ring}, []*object.Entity{p}), 1)

	ring.Step(t0.Add(2 * time.Second))
	assert.Empty(t, d.Detect([]*object.Entity{ring}, []*object.Entity{p}))
}
