package server

import (
	"time"

	"turf-war/server/internal/combat"
	"turf-war/server/internal/sim"
	"turf-war/server/internal/world"
)

// Tuning aggregates every gameplay tunable the server loads at startup. The
// schema generator in cmd/schema publishes its JSON shape for editor tooling.
type Tuning struct {
	// CellSize is the edge length of one grid cell in world units.
	CellSize float64 `json:"cellSize" jsonschema:"description=Edge length of one grid cell in world units"`
	// CellsX is the lane axis; the turf strip has one lane per X cell.
	CellsX int `json:"cellsX" jsonschema:"description=Grid cells along the contested lane axis"`
	CellsY int `json:"cellsY" jsonschema:"description=Grid cells along the vertical axis"`
	CellsZ int `json:"cellsZ" jsonschema:"description=Grid cells along the depth axis"`

	// TurfPerKill is how many lanes one kill claims toward the enemy side.
	TurfPerKill int `json:"turfPerKill" jsonschema:"description=Lanes claimed per kill"`
	// BlockMaxHealth is the health of a freshly placed block.
	BlockMaxHealth float64 `json:"blockMaxHealth" jsonschema:"description=Health of a freshly placed block"`

	Combat combat.Config `json:"combat"`
	Sim    sim.Config    `json:"sim"`
}

// DefaultTuning returns the production defaults.
func DefaultTuning() Tuning {
	return Tuning{
		CellSize:       3,
		CellsX:         80,
		CellsY:         30,
		CellsZ:         60,
		TurfPerKill:    3,
		BlockMaxHealth: 50,
		Combat:         combat.DefaultConfig(),
		Sim:            sim.DefaultConfig(),
	}
}

// Normalized clamps out-of-range values back to usable defaults.
func (t Tuning) Normalized() Tuning {
	def := DefaultTuning()
	if t.CellSize <= 0 {
		t.CellSize = def.CellSize
	}
	if t.CellsX < 2 {
		t.CellsX = def.CellsX
	}
	if t.CellsY < 1 {
		t.CellsY = def.CellsY
	}
	if t.CellsZ < 1 {
		t.CellsZ = def.CellsZ
	}
	if t.TurfPerKill < 1 {
		t.TurfPerKill = def.TurfPerKill
	}
	if t.BlockMaxHealth <= 0 {
		t.BlockMaxHealth = def.BlockMaxHealth
	}
	if t.Combat.PlayerMaxHealth <= 0 {
		t.Combat = def.Combat
	}
	if t.Sim.Workers <= 0 {
		t.Sim.Workers = def.Sim.Workers
	}
	return t
}

// Grid builds the world grid this tuning describes.
func (t Tuning) Grid() world.Grid {
	return world.Grid{
		CellSize: t.CellSize,
		CellsX:   t.CellsX,
		CellsY:   t.CellsY,
		CellsZ:   t.CellsZ,
	}
}

// FrameDt is the tick interval.
func (t Tuning) FrameDt() time.Duration {
	return time.Second / time.Duration(tickRate)
}
