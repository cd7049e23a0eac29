package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// PointMaxLimit bounds PointMax so the pairwise collision scan stays cheap.
const PointMaxLimit = 500

// Settings is the tunable parameter set of one game session.
// Speeds are in logical pixels per millisecond.
type Settings struct {
	// Rings
	RingDuration   time.Duration
	RingSpeed      float64
	RingInitRadius float64

	// Points
	PointDuration  time.Duration
	PointSpeed     float64
	PointRadius    float64
	PointMax       int
	PointFrequency int // points created per spawn tick

	// Timers
	SpawnInterval  time.Duration
	UpdateInterval time.Duration

	// Scoring
	BaseScore       float64
	ChainCountMax   int
	ChainTimeout    time.Duration
	ChainMultiplier float64
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		RingDuration:   2000 * time.Millisecond,
		RingSpeed:      0.1,
		RingInitRadius: 1,

		PointDuration:  15000 * time.Millisecond,
		PointSpeed:     0.05,
		PointRadius:    6,
		PointMax:       100,
		PointFrequency: 1,

		SpawnInterval:  1000 * time.Millisecond,
		UpdateInterval: 30 * time.Millisecond,

		BaseScore:       100,
		ChainCountMax:   20,
		ChainTimeout:    2000 * time.Millisecond,
		ChainMultiplier: 1.1,
	}
}

// Validate reports the first out-of-range field.
func (s Settings) Validate() error {
	switch {
	case s.RingDuration <= 0:
		return fmt.Errorf("%w: ring duration must be positive", ErrInvalidSettings)
	case s.RingSpeed < 0:
		return fmt.Errorf("%w: ring speed must not be negative", ErrInvalidSettings)
	case s.RingInitRadius < 0:
		return fmt.Errorf("%w: ring init radius must not be negative", ErrInvalidSettings)
	case s.PointDuration <= 0:
		return fmt.Errorf("%w: point duration must be positive", ErrInvalidSettings)
	case s.PointSpeed < 0:
		return fmt.Errorf("%w: point speed must not be negative", ErrInvalidSettings)
	case s.PointRadius <= 0:
		return fmt.Errorf("%w: point radius must be positive", ErrInvalidSettings)
	case s.PointMax < 0 || s.PointMax > PointMaxLimit:
		return fmt.Errorf("%w: point max must be within [0, %d]", ErrInvalidSettings, PointMaxLimit)
	case s.PointFrequency < 0:
		return fmt.Errorf("%w: point frequency must not be negative", ErrInvalidSettings)
	case s.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn interval must be positive", ErrInvalidSettings)
	case s.UpdateInterval <= 0:
		return fmt.Errorf("%w: update interval must be positive", ErrInvalidSettings)
	case s.BaseScore < 0:
		return fmt.Errorf("%w: base score must not be negative", ErrInvalidSettings)
	case s.ChainCountMax < 0:
		return fmt.Errorf("%w: chain count max must not be negative", ErrInvalidSettings)
	case s.ChainTimeout < 0:
		return fmt.Errorf("%w: chain timeout must not be negative", ErrInvalidSettings)
	case s.ChainMultiplier < 1:
		return fmt.Errorf("%w: chain multiplier must be at least 1", ErrInvalidSettings)
	}
	return nil
}

// LoadSettings returns DefaultSettings overridden by RRR_* environment
// variables, validated.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()
	var err error

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RRR_RING_DURATION", &s.RingDuration},
		{"RRR_POINT_DURATION", &s.PointDuration},
		{"RRR_SPAWN_INTERVAL", &s.SpawnInterval},
		{"RRR_UPDATE_INTERVAL", &s.UpdateInterval},
		{"RRR_CHAIN_TIMEOUT", &s.ChainTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = GetEnvDuration(d.key, *d.dst); err != nil {
			return s, err
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"RRR_RING_SPEED", &s.RingSpeed},
		{"RRR_RING_INIT_RADIUS", &s.RingInitRadius},
		{"RRR_POINT_SPEED", &s.PointSpeed},
		{"RRR_POINT_RADIUS", &s.PointRadius},
		{"RRR_BASE_SCORE", &s.BaseScore},
		{"RRR_CHAIN_MULTIPLIER", &s.ChainMultiplier},
	}
	for _, f := range floats {
		if *f.dst, err = GetEnvFloat(f.key, *f.dst); err != nil {
			return s, err
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"RRR_POINT_MAX", &s.PointMax},
		{"RRR_POINT_FREQUENCY", &s.PointFrequency},
		{"RRR_CHAIN_COUNT_MAX", &s.ChainCountMax},
	}
	for _, i := range ints {
		if *i.dst, err = GetEnvInt(i.key, *i.dst); err != nil {
			return s, err
		}
	}

	return s, s.Validate()
}
