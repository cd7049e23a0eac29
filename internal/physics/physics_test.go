package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSquared(t *testing.T) {
	assert.InDelta(t, 25.0, DistanceSquared(0, 0, 3, 4), 1e-12)
	assert.InDelta(t, 25.0, DistanceSquared(3, 4, 0, 0), 1e-12)
}

func TestEdgeRatioDegenerate(t *testing.T) {
	// sumRadii² = 0.09 < 0.1
	assert.Equal(t, 0.0, EdgeRatio(0, 0, 0.1, 50, 50, 0.2))
	assert.Equal(t, 0.0, EdgeRatio(0, 0, 0, 0, 0, 0))
	assert.False(t, RingEdgeHit(0, 0, 0, 0.001, 0, 0))
}

func TestRingEdgeHit(t *testing.T) {
	tests := []struct {
		name       string
		ringRadius float64
		dist       float64
		pointR     float64
		want       bool
	}{
		{"concentric", 94, 0, 6, false},
		{"exact edge", 94, 100, 6, true},
		{"ring radius 100 point at 100", 100, 100, 6, true},
		{"just inside window", 94, 100 * math.Sqrt(0.86), 6, true},
		{"just outside lower bound", 94, 100 * math.Sqrt(0.84), 6, false},
		{"just inside upper bound", 94, 100 * math.Sqrt(1.14), 6, true},
		{"beyond upper bound", 94, 100 * math.Sqrt(1.16), 6, false},
		{"far away", 10, 500, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RingEdgeHit(100, 100, tt.ringRadius, 100+tt.dist, 100, tt.pointR)
			assert.Equal(t, tt.want, got, "ratio=%f", EdgeRatio(100, 100, tt.ringRadius, 100+tt.dist, 100, tt.pointR))
		})
	}
}

func TestRingEdgeHitMatchesRatioWindow(t *testing.T) {
	for d := 0.0; d < 300; d += 0.5 {
		ratio := EdgeRatio(0, 0, 120, 0, d, 6)
		want := ratio > HitRatioMin && ratio < HitRatioMax
		assert.Equal(t, want, RingEdgeHit(0, 0, 120, 0, d, 6), "d=%f", d)
	}
}
