package combat

import (
	"time"

	"turf-war/server/internal/physics"
	"turf-war/server/internal/world"
)

// PlayerState is the per-player action state the validators check and mutate.
// It lives on the player's hub record and is only touched from the hub
// goroutine.
type PlayerState struct {
	ID            string
	Team          world.TeamID
	Alive         bool
	CombatEnabled bool
	Position      physics.Vec3
	Ping          time.Duration

	Tool   ToolType
	Blocks int
	Ammo   int

	Health    float64
	MaxHealth float64

	Kills  int
	Deaths int

	lastFire   time.Time
	lastDamage time.Time
	offenses   int
}

// NewPlayerState creates spawn-ready action state.
func NewPlayerState(id string, team world.TeamID, cfg Config) *PlayerState {
	p := &PlayerState{ID: id, Team: team}
	p.Respawn(cfg)
	return p
}

// Respawn resets the per-life portion of the state. Kill/death tallies and
// the offense counter survive death.
func (p *PlayerState) Respawn(cfg Config) {
	p.Alive = true
	p.Tool = ToolNone
	p.Blocks = cfg.StartingBlocks
	p.Ammo = cfg.Slingshot.AmmoCapacity
	p.Health = cfg.PlayerMaxHealth
	p.MaxHealth = cfg.PlayerMaxHealth
	p.lastFire = time.Time{}
	p.lastDamage = time.Time{}
}

// Offenses reports the accumulated kick-offense count.
func (p *PlayerState) Offenses() int { return p.offenses }

// ApplyDamage subtracts health and reports whether the hit was lethal.
func (p *PlayerState) ApplyDamage(amount float64) bool {
	if !p.Alive || amount <= 0 {
		return false
	}
	p.Health -= amount
	if p.Health > 0 {
		return false
	}
	p.Health = 0
	p.Alive = false
	p.Deaths++
	return true
}

// RefillAmmo restores one projectile, clamped to capacity.
func (p *PlayerState) RefillAmmo(cfg Config) {
	if p.Ammo < cfg.Slingshot.AmmoCapacity {
		p.Ammo++
	}
}
