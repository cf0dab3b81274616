// Package world owns the block grid: placement, occupancy, damage, and the
// static geometry projectile raycasts sweep against.
package world

import (
	"fmt"
	"math"

	"turf-war/server/internal/physics"
)

// TeamID identifies one of the two competing teams.
type TeamID uint8

const (
	TeamNone TeamID = iota
	TeamRed
	TeamBlue
)

func (t TeamID) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return "none"
	}
}

// Opponent returns the other team, or TeamNone for TeamNone.
func (t TeamID) Opponent() TeamID {
	switch t {
	case TeamRed:
		return TeamBlue
	case TeamBlue:
		return TeamRed
	default:
		return TeamNone
	}
}

// Grid describes the buildable volume. The X axis is the contested lane axis;
// cell (0,0,0) has its corner at the world origin.
type Grid struct {
	CellSize float64
	CellsX   int
	CellsY   int
	CellsZ   int
}

// Cell addresses one grid cell.
type Cell struct {
	X int
	Y int
	Z int
}

// CellOf maps a world position to the cell containing it.
func (g Grid) CellOf(pos physics.Vec3) Cell {
	return Cell{
		X: int(math.Floor(pos.X / g.CellSize)),
		Y: int(math.Floor(pos.Y / g.CellSize)),
		Z: int(math.Floor(pos.Z / g.CellSize)),
	}
}

// Contains reports whether the cell lies inside the grid volume.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.CellsX &&
		c.Y >= 0 && c.Y < g.CellsY &&
		c.Z >= 0 && c.Z < g.CellsZ
}

// ContainsPosition reports whether a world position is inside the grid volume.
func (g Grid) ContainsPosition(pos physics.Vec3) bool {
	return g.Contains(g.CellOf(pos))
}

// CenterOf returns the world-space center of a cell.
func (g Grid) CenterOf(c Cell) physics.Vec3 {
	half := g.CellSize / 2
	return physics.Vec3{
		X: float64(c.X)*g.CellSize + half,
		Y: float64(c.Y)*g.CellSize + half,
		Z: float64(c.Z)*g.CellSize + half,
	}
}

// Snap returns the grid-aligned position for a requested block position.
// Placement requests must match this exactly; anything else is off-grid.
func (g Grid) Snap(pos physics.Vec3) physics.Vec3 {
	return g.CenterOf(g.CellOf(pos))
}

// LaneOf maps a world X coordinate to its lane index via floor division.
func (g Grid) LaneOf(x float64) int {
	return int(math.Floor(x / g.CellSize))
}

// Width returns the world-space extent of the grid along the lane axis.
func (g Grid) Width() float64 {
	return float64(g.CellsX) * g.CellSize
}

// Block is a placed build piece. Health is mutated only by the registry.
type Block struct {
	ID       uint64       `json:"id"`
	Position physics.Vec3 `json:"position"`
	Team     TeamID       `json:"team"`
	Health   float64      `json:"health"`
}

// Registry tracks placed blocks and cell occupancy. It is mutated only from
// the hub goroutine and needs no lock.
type Registry struct {
	grid      Grid
	maxHealth float64
	nextID    uint64
	blocks    map[uint64]*Block
	occupied  map[Cell]uint64
}

// NewRegistry builds an empty registry for the given grid.
func NewRegistry(grid Grid, maxHealth float64) *Registry {
	return &Registry{
		grid:      grid,
		maxHealth: maxHealth,
		blocks:    make(map[uint64]*Block),
		occupied:  make(map[Cell]uint64),
	}
}

// Grid exposes the registry's grid description.
func (r *Registry) Grid() Grid { return r.grid }

// MaxHealth reports the health a freshly placed block starts with.
func (r *Registry) MaxHealth() float64 { return r.maxHealth }

// Occupied reports whether the cell containing pos already holds a block.
func (r *Registry) Occupied(pos physics.Vec3) bool {
	_, ok := r.occupied[r.grid.CellOf(pos)]
	return ok
}

// Place spawns a block at an exactly grid-snapped position.
func (r *Registry) Place(pos physics.Vec3, team TeamID) (*Block, error) {
	cell := r.grid.CellOf(pos)
	if !r.grid.Contains(cell) {
		return nil, fmt.Errorf("cell %v outside grid", cell)
	}
	if pos != r.grid.CenterOf(cell) {
		return nil, fmt.Errorf("position %+v is not grid aligned", pos)
	}
	if _, taken := r.occupied[cell]; taken {
		return nil, fmt.Errorf("cell %v already occupied", cell)
	}

	r.nextID++
	block := &Block{
		ID:       r.nextID,
		Position: pos,
		Team:     team,
		Health:   r.maxHealth,
	}
	r.blocks[block.ID] = block
	r.occupied[cell] = block.ID
	return block, nil
}

// ByID looks up a live block.
func (r *Registry) ByID(id uint64) (*Block, bool) {
	block, ok := r.blocks[id]
	return block, ok
}

// BlockAt returns the block occupying the cell that contains pos.
func (r *Registry) BlockAt(pos physics.Vec3) (*Block, bool) {
	id, ok := r.occupied[r.grid.CellOf(pos)]
	if !ok {
		return nil, false
	}
	return r.blocks[id], true
}

// Damage subtracts health and removes the block when it reaches zero. The
// second return reports destruction.
func (r *Registry) Damage(id uint64, amount float64) (*Block, bool) {
	block, ok := r.blocks[id]
	if !ok {
		return nil, false
	}
	if amount < 0 {
		amount = 0
	}
	block.Health -= amount
	if block.Health > 0 {
		return block, false
	}
	block.Health = 0
	r.removeBlock(block)
	return block, true
}

// Remove deletes a block outright (turf claims, round teardown).
func (r *Registry) Remove(id uint64) bool {
	block, ok := r.blocks[id]
	if !ok {
		return false
	}
	r.removeBlock(block)
	return true
}

func (r *Registry) removeBlock(block *Block) {
	delete(r.blocks, block.ID)
	delete(r.occupied, r.grid.CellOf(block.Position))
}

// Len reports the number of live blocks.
func (r *Registry) Len() int { return len(r.blocks) }

// Clear drops every block, used at round reset.
func (r *Registry) Clear() {
	r.blocks = make(map[uint64]*Block)
	r.occupied = make(map[Cell]uint64)
}

// Snapshot copies every live block for broadcasting.
func (r *Registry) Snapshot() []Block {
	out := make([]Block, 0, len(r.blocks))
	for _, block := range r.blocks {
		out = append(out, *block)
	}
	return out
}
