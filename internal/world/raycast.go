package world

import (
	"math"

	"turf-war/server/internal/physics"
)

// Hit describes where a swept segment struck world geometry.
type Hit struct {
	Position physics.Vec3
	BlockID  uint64
	Ground   bool
}

// Filter decides whether a block is solid for a given sweep. A nil filter
// treats every block as solid.
type Filter func(*Block) bool

// CastSegment sweeps the straight line from..to against the ground plane and
// the block grid, returning the nearest hit. The sweep samples the segment at
// half-cell granularity, which is finer than any block and cheap enough to run
// inside the parallel projectile step.
func (r *Registry) CastSegment(from, to physics.Vec3, filter Filter) (Hit, bool) {
	delta := to.Sub(from)
	length := delta.Length()

	// Ground plane at y=0 stops every projectile.
	if from.Y > 0 && to.Y <= 0 {
		t := from.Y / (from.Y - to.Y)
		groundHit := Hit{Position: from.Add(delta.Scale(t)), Ground: true}
		if blockHit, ok := r.castBlocks(from, delta, length, filter); ok {
			if blockHit.Position.DistanceTo(from) < groundHit.Position.DistanceTo(from) {
				return blockHit, true
			}
		}
		return groundHit, true
	}

	return r.castBlocks(from, delta, length, filter)
}

func (r *Registry) castBlocks(from, delta physics.Vec3, length float64, filter Filter) (Hit, bool) {
	if length == 0 || len(r.blocks) == 0 {
		return Hit{}, false
	}

	step := r.grid.CellSize / 2
	steps := int(math.Ceil(length / step))
	dir := delta.Scale(1 / length)

	var lastCell Cell
	haveLast := false
	for i := 0; i <= steps; i++ {
		travelled := float64(i) * step
		if travelled > length {
			travelled = length
		}
		point := from.Add(dir.Scale(travelled))
		cell := r.grid.CellOf(point)
		if haveLast && cell == lastCell {
			continue
		}
		lastCell, haveLast = cell, true

		id, occupied := r.occupied[cell]
		if !occupied {
			continue
		}
		block := r.blocks[id]
		if filter != nil && !filter(block) {
			continue
		}
		return Hit{Position: point, BlockID: id}, true
	}
	return Hit{}, false
}
