// Package config holds the frontend constants shared by the server and its
// clients: play surface size, frame rates and connection timeouts.
package config

import "time"

// World resolution in logical pixels. Every session plays on this surface
// and clients scale it to fit their terminal or window.
const (
	WorldWidth  = 640
	WorldHeight = 400
)

// Max render resolution in terminal cells. Larger terminals get a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate. Sessions keep their own update interval; the server
// only needs to run at least that often.
const (
	ServerTickRate = 100
	ServerTickTime = time.Second / ServerTickRate
)

// Channel sizes
const (
	InputBufferSize  = 256
	EventsBufferSize = 32
)
