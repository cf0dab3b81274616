package server

import "time"

const (
	writeWait         = 10 * time.Second
	tickRate          = 30 // simulation ticks per second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	// minTiltInterval throttles the unreliable tilt stream per player.
	minTiltInterval = 50 * time.Millisecond

	// minHitInterval and minPlaceInterval cap how fast hit reports and block
	// placements are accepted per player, ahead of the validators' cooldowns.
	minHitInterval   = 50 * time.Millisecond
	minPlaceInterval = 100 * time.Millisecond

	// recordPurgeTicks is how often the pending projectile-record store is
	// swept for expired entries.
	recordPurgeTicks = tickRate
)

// TickRate reports the simulation frequency in ticks per second.
func TickRate() int { return tickRate }

// HeartbeatInterval reports how often clients are expected to heartbeat.
func HeartbeatInterval() time.Duration { return heartbeatInterval }
