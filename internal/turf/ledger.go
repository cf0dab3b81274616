// Package turf tracks per-lane ownership of the contested strip. Red owns
// lanes below the cursor, blue the rest; the cursor reaching either end of the
// strip is a terminal win for the corresponding team.
package turf

import (
	"fmt"

	"turf-war/server/internal/physics"
	"turf-war/server/internal/world"
)

// ClaimResult reports the outcome of one turf claim for broadcasting.
type ClaimResult struct {
	Team            world.TeamID
	PreviousCursor  int
	NewCursor       int
	ClaimedLanes    []int
	DestroyedBlocks []uint64
	Won             bool
}

// Ledger is the per-round turf state machine. It is mutated only from the hub
// goroutine and needs no lock.
type Ledger struct {
	grid        world.Grid
	blocks      *world.Registry
	turfPerKill int

	lanes  []world.TeamID
	cursor int
	winner world.TeamID

	laneBlocks map[int]map[uint64]struct{}
}

// NewLedger builds a ledger over the block registry's grid with the cursor at
// the midpoint.
func NewLedger(blocks *world.Registry, turfPerKill int) *Ledger {
	if turfPerKill < 1 {
		turfPerKill = 1
	}
	l := &Ledger{
		grid:        blocks.Grid(),
		blocks:      blocks,
		turfPerKill: turfPerKill,
	}
	l.Reset()
	return l
}

// Reset repaints the strip around a midpoint cursor and clears block tracking.
// Called at round start.
func (l *Ledger) Reset() {
	count := l.grid.CellsX
	l.cursor = count / 2
	l.winner = world.TeamNone
	l.lanes = make([]world.TeamID, count)
	for i := range l.lanes {
		l.lanes[i] = l.ownerOf(i)
	}
	l.laneBlocks = make(map[int]map[uint64]struct{})
}

func (l *Ledger) ownerOf(lane int) world.TeamID {
	if lane < l.cursor {
		return world.TeamRed
	}
	return world.TeamBlue
}

// Cursor returns the dividing lane index.
func (l *Ledger) Cursor() int { return l.cursor }

// LaneCount returns the number of lanes in the strip.
func (l *Ledger) LaneCount() int { return l.grid.CellsX }

// LaneOwner returns the team owning a lane.
func (l *Ledger) LaneOwner(lane int) world.TeamID {
	if lane < 0 || lane >= len(l.lanes) {
		return world.TeamNone
	}
	return l.lanes[lane]
}

// Winner reports the latched terminal state, if any.
func (l *Ledger) Winner() (world.TeamID, bool) {
	return l.winner, l.winner != world.TeamNone
}

// RegisterBlock associates a placed block with the lane its X position falls
// in so turf claims can destroy it. Out-of-strip blocks are rejected.
func (l *Ledger) RegisterBlock(block *world.Block) error {
	lane := l.grid.LaneOf(block.Position.X)
	if lane < 0 || lane >= l.grid.CellsX {
		return fmt.Errorf("block %d at lane %d outside strip", block.ID, lane)
	}
	if l.laneBlocks[lane] == nil {
		l.laneBlocks[lane] = make(map[uint64]struct{})
	}
	l.laneBlocks[lane][block.ID] = struct{}{}
	return nil
}

// ForgetBlock drops a destroyed block from lane tracking.
func (l *Ledger) ForgetBlock(block *world.Block) {
	lane := l.grid.LaneOf(block.Position.X)
	if ids, ok := l.laneBlocks[lane]; ok {
		delete(ids, block.ID)
	}
}

// RegisterKill claims turf toward the killing team's opponent. The claim is
// clamped to the strip; reaching either end latches the winner. Claims after a
// win are ignored.
func (l *Ledger) RegisterKill(team world.TeamID) (ClaimResult, bool) {
	if l.winner != world.TeamNone {
		return ClaimResult{}, false
	}
	if team != world.TeamRed && team != world.TeamBlue {
		return ClaimResult{}, false
	}
	return l.claimTurf(team), true
}

func (l *Ledger) claimTurf(team world.TeamID) ClaimResult {
	result := ClaimResult{Team: team, PreviousCursor: l.cursor}

	next := l.cursor
	if team == world.TeamRed {
		next += l.turfPerKill
		if next > l.grid.CellsX {
			next = l.grid.CellsX
		}
		for lane := l.cursor; lane < next; lane++ {
			result.ClaimedLanes = append(result.ClaimedLanes, lane)
		}
	} else {
		next -= l.turfPerKill
		if next < 0 {
			next = 0
		}
		for lane := next; lane < l.cursor; lane++ {
			result.ClaimedLanes = append(result.ClaimedLanes, lane)
		}
	}

	for _, lane := range result.ClaimedLanes {
		l.lanes[lane] = team
		for id := range l.laneBlocks[lane] {
			if l.blocks.Remove(id) {
				result.DestroyedBlocks = append(result.DestroyedBlocks, id)
			}
		}
		delete(l.laneBlocks, lane)
	}

	l.cursor = next
	result.NewCursor = next

	if next == 0 {
		l.winner = world.TeamBlue
		result.Won = true
	} else if next == l.grid.CellsX {
		l.winner = world.TeamRed
		result.Won = true
	}
	return result
}

// dividerX is the world X coordinate of the turf boundary.
func (l *Ledger) dividerX() float64 {
	return float64(l.cursor) * l.grid.CellSize
}

// IsOnCorrectSide reports whether a position is on the team's side of the
// divider. It ignores grid bounds so momentarily airborne characters are not
// flagged.
func (l *Ledger) IsOnCorrectSide(pos physics.Vec3, team world.TeamID) bool {
	if team == world.TeamRed {
		return pos.X < l.dividerX()
	}
	return pos.X >= l.dividerX()
}

// IsPositionOnTurf reports whether a position is both inside the strip and on
// the team's side. Used for placement legality.
func (l *Ledger) IsPositionOnTurf(pos physics.Vec3, team world.TeamID) bool {
	lane := l.grid.LaneOf(pos.X)
	if lane < 0 || lane >= l.grid.CellsX {
		return false
	}
	return l.IsOnCorrectSide(pos, team)
}

// KickImpulse returns the corrective impulse that lifts a character and pushes
// it back toward its own territory.
func (l *Ledger) KickImpulse(pos physics.Vec3, team world.TeamID) physics.Vec3 {
	const lift = 30.0
	const shove = 60.0
	impulse := physics.Vec3{Y: lift}
	if team == world.TeamRed {
		if pos.X >= l.dividerX() {
			impulse.X = -shove
		}
	} else if pos.X < l.dividerX() {
		impulse.X = shove
	}
	return impulse
}

// Lanes copies the ownership strip for broadcasting.
func (l *Ledger) Lanes() []world.TeamID {
	out := make([]world.TeamID, len(l.lanes))
	copy(out, l.lanes)
	return out
}
