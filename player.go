package server

import (
	"time"

	"turf-war/server/internal/combat"
	"turf-war/server/internal/physics"
)

// Player is the wire representation broadcast in state snapshots.
type Player struct {
	ID        string       `json:"id"`
	Team      string       `json:"team"`
	Position  physics.Vec3 `json:"position"`
	Tilt      physics.Vec3 `json:"tilt"`
	Health    float64      `json:"health"`
	MaxHealth float64      `json:"maxHealth"`
	Alive     bool         `json:"alive"`
	Tool      string       `json:"tool,omitempty"`
	Blocks    int          `json:"blocks"`
	Ammo      int          `json:"ammo"`
	Kills     int          `json:"kills"`
	Deaths    int          `json:"deaths"`
}

// playerState is the hub-side record: validated combat state plus transport
// bookkeeping. Mutated only under the hub mutex.
type playerState struct {
	combat *combat.PlayerState

	tilt           physics.Vec3
	lastHeartbeat  time.Time
	lastRTT        time.Duration
	nextAmmoRefill time.Time
}

func (p *playerState) snapshot() Player {
	c := p.combat
	return Player{
		ID:        c.ID,
		Team:      c.Team.String(),
		Position:  c.Position,
		Tilt:      p.tilt,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		Alive:     c.Alive,
		Tool:      string(c.Tool),
		Blocks:    c.Blocks,
		Ammo:      c.Ammo,
		Kills:     c.Kills,
		Deaths:    c.Deaths,
	}
}
