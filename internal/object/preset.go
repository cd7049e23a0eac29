package object

import (
	"github.com/tomz197/ripples/internal/config"
)

// Variant overlays, applied over the kind defaults.
var (
	ringVariants = map[Variant]Config{
		VariantWhite: {StrokeColor: "#08C"},
	}
	pointVariants = map[Variant]Config{
		VariantWhite: {FillColor: "#FFF", Fade: FadeOff},
	}
)

// RingConfig returns the ring defaults for the given settings and variant.
func RingConfig(s config.Settings, v Variant) Config {
	base := Config{
		InitRadius:  s.RingInitRadius,
		Duration:    s.RingDuration,
		Speed:       s.RingSpeed,
		StrokeColor: "#000",
		StrokeWidth: 2,
		FillColor:   "transparent",
		Fade:        FadeOn,
	}
	return base.Merge(ringVariants[v])
}

// PointConfig returns the point defaults for the given settings and variant.
func PointConfig(s config.Settings, v Variant) Config {
	base := Config{
		Radius:    s.PointRadius,
		Duration:  s.PointDuration,
		FillColor: "#000",
		Fade:      FadeOff,
	}
	return base.Merge(pointVariants[v])
}
