package config

import "time"

// Game Loop Timing
const (
	// TICK_INTERVAL is the game loop update interval (10 frames per second).
	TICK_INTERVAL = 100 * time.Millisecond
)

// Hazard Timing (milliseconds, matching the hazard package's time unit)
const (
	// DefaultHoleOpenMs is how long a dug hole stays open before the brick regrows.
	DefaultHoleOpenMs = int64(5000)
	// DefaultGuardStunMs is how long a guard is incapacitated after falling into a hole.
	DefaultGuardStunMs = int64(2000)
	// GuardRespawnDelayMs is how long a destroyed guard stays off the board.
	GuardRespawnDelayMs = int64(3000)
)

// Gameplay Limits
const (
	// MaxDigRange is the maximum horizontal distance (in cells) between a
	// player and the brick it digs.
	MaxDigRange = 1
	// DefaultLevelName is the level document loaded when LEVEL_NAME is unset.
	DefaultLevelName = "vault_alpha"
)

// Client Messaging
const (
	// SendBufferSize is the per-client outbound message buffer.
	SendBufferSize = 256
)
