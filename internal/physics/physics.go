// Package physics provides collision detection and distance utilities.
package physics

// Ring-edge hit window. A point is hit when its squared distance from the
// ring center, relative to the squared sum of radii, lies strictly inside
// (HitRatioMin, HitRatioMax).
const (
	HitRatioMin = 0.85
	HitRatioMax = 1.15

	// degenerateRadiiSq is the smallest squared radii sum that yields a ratio.
	degenerateRadiiSq = 0.1
)

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// EdgeRatio returns dist²/(r1+r2)² for two circles, or 0 when the radii sum
// is too small to divide by.
func EdgeRatio(x1, y1, r1, x2, y2, r2 float64) float64 {
	sum := r1 + r2
	sumSq := sum * sum
	if sumSq < degenerateRadiiSq {
		return 0
	}
	return DistanceSquared(x1, y1, x2, y2) / sumSq
}

// RingEdgeHit reports whether a point circle sits on the expanding edge of a
// ring: the ring is a stroked outline, so a point inside the ring or far
// outside it does not count.
func RingEdgeHit(rx, ry, ringRadius, px, py, pointRadius float64) bool {
	ratio := EdgeRatio(rx, ry, ringRadius, px, py, pointRadius)
	return ratio > HitRatioMin && ratio < HitRatioMax
}
