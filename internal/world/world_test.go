package world

import (
	"testing"

	"turf-war/server/internal/physics"
)

func testGrid() Grid {
	return Grid{CellSize: 3, CellsX: 80, CellsY: 30, CellsZ: 60}
}

func TestSnapAlignsToCellCenters(t *testing.T) {
	grid := testGrid()
	snapped := grid.Snap(physics.Vec3{X: 1.3, Y: 0.2, Z: 4.9})
	want := physics.Vec3{X: 1.5, Y: 1.5, Z: 4.5}
	if snapped != want {
		t.Fatalf("Snap = %+v, want %+v", snapped, want)
	}
	// Snapping a snapped position is a fixed point.
	if again := grid.Snap(snapped); again != snapped {
		t.Fatalf("Snap not idempotent: %+v -> %+v", snapped, again)
	}
}

func TestPlaceRejectsOffGridAndOccupied(t *testing.T) {
	reg := NewRegistry(testGrid(), 100)

	if _, err := reg.Place(physics.Vec3{X: 1.3, Y: 0, Z: 0}, TeamRed); err == nil {
		t.Fatal("expected off-grid placement to be rejected")
	}

	pos := reg.Grid().Snap(physics.Vec3{X: 1.3, Y: 0, Z: 0})
	block, err := reg.Place(pos, TeamRed)
	if err != nil {
		t.Fatalf("aligned placement failed: %v", err)
	}
	if block.Health != 100 {
		t.Fatalf("new block health = %v, want 100", block.Health)
	}

	if _, err := reg.Place(pos, TeamBlue); err == nil {
		t.Fatal("expected occupied cell to be rejected")
	}

	outside := physics.Vec3{X: -1.5, Y: 1.5, Z: 1.5}
	if _, err := reg.Place(outside, TeamRed); err == nil {
		t.Fatal("expected out-of-bounds placement to be rejected")
	}
}

func TestDamageDestroysAtZero(t *testing.T) {
	reg := NewRegistry(testGrid(), 100)
	pos := reg.Grid().Snap(physics.Vec3{X: 10, Y: 0, Z: 10})
	block, err := reg.Place(pos, TeamBlue)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if _, destroyed := reg.Damage(block.ID, 25); destroyed {
		t.Fatal("block destroyed too early")
	}
	if _, destroyed := reg.Damage(block.ID, 75); !destroyed {
		t.Fatal("block should be destroyed at zero health")
	}
	if _, ok := reg.ByID(block.ID); ok {
		t.Fatal("destroyed block still registered")
	}
	if reg.Occupied(pos) {
		t.Fatal("destroyed block still occupies its cell")
	}
}

func TestCastSegmentHitsBlock(t *testing.T) {
	reg := NewRegistry(testGrid(), 100)
	pos := reg.Grid().Snap(physics.Vec3{X: 30, Y: 3, Z: 30})
	block, err := reg.Place(pos, TeamBlue)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	from := physics.Vec3{X: 20, Y: pos.Y, Z: pos.Z}
	to := physics.Vec3{X: 40, Y: pos.Y, Z: pos.Z}
	hit, ok := reg.CastSegment(from, to, nil)
	if !ok {
		t.Fatal("expected segment to hit the block")
	}
	if hit.BlockID != block.ID {
		t.Fatalf("hit block %d, want %d", hit.BlockID, block.ID)
	}

	// A filter that excludes the block lets the segment pass.
	_, ok = reg.CastSegment(from, to, func(b *Block) bool { return b.ID != block.ID })
	if ok {
		t.Fatal("filtered block should not register a hit")
	}
}

func TestCastSegmentHitsGround(t *testing.T) {
	reg := NewRegistry(testGrid(), 100)
	from := physics.Vec3{X: 10, Y: 5, Z: 10}
	to := physics.Vec3{X: 10, Y: -5, Z: 10}
	hit, ok := reg.CastSegment(from, to, nil)
	if !ok || !hit.Ground {
		t.Fatalf("expected ground hit, got %+v ok=%v", hit, ok)
	}
	if hit.Position.Y != 0 {
		t.Fatalf("ground hit at y=%v, want 0", hit.Position.Y)
	}
}

func TestLaneOf(t *testing.T) {
	grid := testGrid()
	cases := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{2.9, 0},
		{3, 1},
		{119.9, 39},
		{-0.1, -1},
	}
	for _, tc := range cases {
		if got := grid.LaneOf(tc.x); got != tc.want {
			t.Fatalf("LaneOf(%v) = %d, want %d", tc.x, got, tc.want)
		}
	}
}
