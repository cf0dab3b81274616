package server

import (
	"testing"
	"time"

	"turf-war/server/internal/combat"
	"turf-war/server/internal/physics"
	"turf-war/server/internal/world"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub, err := NewHub(DefaultTuning(), nil, nil)
	if err != nil {
		t.Fatalf("NewHub: %v", err)
	}
	return hub
}

func TestJoinBalancesTeams(t *testing.T) {
	hub := newTestHub(t)

	first := hub.Join()
	second := hub.Join()
	if first.Team == second.Team {
		t.Fatalf("both players on team %q", first.Team)
	}
	third := hub.Join()
	fourth := hub.Join()
	if third.Team == fourth.Team {
		t.Fatalf("third and fourth both on team %q", third.Team)
	}
}

func TestJoinSpawnsOnOwnSide(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	hub.mu.Lock()
	player := hub.players[join.ID]
	onSide := hub.ledger.IsOnCorrectSide(player.combat.Position, player.combat.Team)
	hub.mu.Unlock()
	if !onSide {
		t.Fatalf("player spawned at %+v on the wrong side", player.combat.Position)
	}
}

func TestHandleFireEntersSimulation(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	if out := hub.HandleEquip(join.ID, "slingshot"); !out.Accepted() {
		t.Fatalf("equip rejected: %+v", out)
	}

	now := time.Now()
	out := hub.HandleFire(join.ID, FireCommand{
		Origin:    hub.spawnPosition(world.TeamRed),
		Direction: physics.Vec3{X: 1},
		Speed:     50,
		FiredAt:   now.UnixMilli(),
	})
	if !out.Accepted() {
		t.Fatalf("fire rejected: %+v", out)
	}
	if snap := hub.TelemetrySnapshot(); snap.InFlight != 1 {
		t.Fatalf("projectiles in flight = %d, want 1", snap.InFlight)
	}
}

func TestHandleFireRejectsStaleTimestamp(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()
	hub.HandleEquip(join.ID, "slingshot")

	stale := time.Now().Add(-5 * time.Second)
	out := hub.HandleFire(join.ID, FireCommand{
		Origin:    hub.spawnPosition(world.TeamRed),
		Direction: physics.Vec3{X: 1},
		Speed:     50,
		FiredAt:   stale.UnixMilli(),
	})
	if out.Accepted() {
		t.Fatal("stale fire timestamp accepted")
	}
}

func TestHardKickRemovesPlayer(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()
	hub.HandleEquip(join.ID, "slingshot")

	out := hub.HandleFire(join.ID, FireCommand{
		Origin:    hub.spawnPosition(world.TeamRed),
		Direction: physics.Vec3{},
		Speed:     50,
		FiredAt:   time.Now().UnixMilli(),
	})
	if !out.ShouldKick() {
		t.Fatalf("verdict = %v, want kick", out.Verdict)
	}

	hub.mu.Lock()
	_, exists := hub.players[join.ID]
	hub.mu.Unlock()
	if exists {
		t.Fatal("kicked player still registered")
	}
}

func TestRegisterHitLethalAdvancesTurf(t *testing.T) {
	hub := newTestHub(t)
	shooter := hub.Join()
	victim := hub.Join()
	hub.HandleEquip(shooter.ID, "slingshot")

	// A short flight keeps both timestamps inside the ping allowance when the
	// hit is registered right after the fire.
	firedAt := time.Now().Add(-40 * time.Millisecond)
	hitAt := firedAt.Add(40 * time.Millisecond)
	origin := hub.spawnPosition(world.TeamRed)
	velocity := physics.Vec3{X: 50}
	gravity := physics.Vec3{Y: -hub.tuning.Combat.Slingshot.Gravity}
	expected := physics.PositionAt(origin, velocity, gravity, 0.04)

	hub.mu.Lock()
	hub.players[victim.ID].combat.Health = 1
	hub.players[victim.ID].combat.Position = expected
	cursorBefore := hub.ledger.Cursor()
	hub.mu.Unlock()

	fire := hub.HandleFire(shooter.ID, FireCommand{
		Origin:    origin,
		Direction: physics.Vec3{X: 1},
		Speed:     50,
		FiredAt:   firedAt.UnixMilli(),
	})
	if !fire.Accepted() {
		t.Fatalf("fire rejected: %+v", fire)
	}

	out := hub.HandleRegisterHit(shooter.ID, HitCommand{
		Target:   "character",
		FiredAt:  firedAt.UnixMilli(),
		HitAt:    hitAt.UnixMilli(),
		Position: expected,
		VictimID: victim.ID,
	})
	if !out.Accepted() {
		t.Fatalf("hit rejected: %+v", out)
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	shooterState := hub.players[shooter.ID].combat
	victimState := hub.players[victim.ID].combat
	if shooterState.Kills != 1 {
		t.Fatalf("kills = %d, want 1", shooterState.Kills)
	}
	if !victimState.Alive || victimState.Health != victimState.MaxHealth {
		t.Fatalf("victim not respawned: alive=%v health=%v", victimState.Alive, victimState.Health)
	}
	if victimState.Deaths != 1 {
		t.Fatalf("deaths = %d, want 1", victimState.Deaths)
	}
	if got := hub.ledger.Cursor(); got != cursorBefore+hub.tuning.TurfPerKill {
		t.Fatalf("cursor = %d, want %d", got, cursorBefore+hub.tuning.TurfPerKill)
	}
}

func TestRegisterHitRejectsFutureTimestamp(t *testing.T) {
	hub := newTestHub(t)
	shooter := hub.Join()
	victim := hub.Join()
	hub.HandleEquip(shooter.ID, "slingshot")

	firedAt := time.Now().UnixMilli()
	origin := hub.spawnPosition(world.TeamRed)
	fire := hub.HandleFire(shooter.ID, FireCommand{
		Origin:    origin,
		Direction: physics.Vec3{X: 1},
		Speed:     50,
		FiredAt:   firedAt,
	})
	if !fire.Accepted() {
		t.Fatalf("fire rejected: %+v", fire)
	}

	// A hit dated a second ahead would collapse the flight time to zero.
	velocity := physics.Vec3{X: 50}
	gravity := physics.Vec3{Y: -hub.tuning.Combat.Slingshot.Gravity}
	expected := physics.PositionAt(origin, velocity, gravity, 1)
	hub.mu.Lock()
	hub.players[victim.ID].combat.Position = expected
	hub.mu.Unlock()

	out := hub.HandleRegisterHit(shooter.ID, HitCommand{
		Target:   "character",
		FiredAt:  firedAt,
		HitAt:    firedAt + 1000,
		Position: expected,
		VictimID: victim.ID,
	})
	if out.Accepted() {
		t.Fatal("future hit timestamp accepted")
	}

	hub.mu.Lock()
	health := hub.players[victim.ID].combat.Health
	maxHealth := hub.players[victim.ID].combat.MaxHealth
	hub.mu.Unlock()
	if health != maxHealth {
		t.Fatalf("victim health = %v after rejected hit, want %v", health, maxHealth)
	}
	if snap := hub.TelemetrySnapshot(); snap.BadTimestamps != 1 {
		t.Fatalf("badTimestamps = %d, want 1", snap.BadTimestamps)
	}
}

func TestRegisterHitRateLimited(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	now := time.Now().UnixMilli()
	cmd := HitCommand{Target: "character", FiredAt: now - 40, HitAt: now, VictimID: "nobody"}
	hub.HandleRegisterHit(join.ID, cmd)

	// The second report lands inside the rate window regardless of what the
	// validator made of the first.
	out := hub.HandleRegisterHit(join.ID, cmd)
	if out.Accepted() || out.Reason != "rate limited" {
		t.Fatalf("second hit report: %+v, want rate limited", out)
	}
	if snap := hub.TelemetrySnapshot(); snap.RateLimited != 1 {
		t.Fatalf("rateLimited = %d, want 1", snap.RateLimited)
	}
}

func TestPlaceBlockRateLimited(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()
	hub.HandleEquip(join.ID, "hammer")

	hub.mu.Lock()
	base := hub.players[join.ID].combat.Position
	grid := hub.blocks.Grid()
	hub.mu.Unlock()

	first := grid.Snap(base)
	second := grid.Snap(base.Add(physics.Vec3{X: grid.CellSize}))
	if out := hub.HandlePlaceBlock(join.ID, first); !out.Accepted() {
		t.Fatalf("first placement rejected: %+v", out)
	}
	if out := hub.HandlePlaceBlock(join.ID, second); out.Accepted() || out.Reason != "rate limited" {
		t.Fatalf("immediate second placement: %+v, want rate limited", out)
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.blocks.Len() != 1 {
		t.Fatalf("blocks = %d, want 1", hub.blocks.Len())
	}
}

func TestPlaceBlockThroughHub(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()
	hub.HandleEquip(join.ID, "hammer")

	hub.mu.Lock()
	pos := hub.blocks.Grid().Snap(hub.players[join.ID].combat.Position)
	hub.mu.Unlock()

	if out := hub.HandlePlaceBlock(join.ID, pos); !out.Accepted() {
		t.Fatalf("placement rejected: %+v", out)
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.blocks.Len() != 1 {
		t.Fatalf("blocks = %d, want 1", hub.blocks.Len())
	}
	if !hub.blocks.Occupied(pos) {
		t.Fatal("placed cell not occupied")
	}
}

func TestHeartbeatUpdatesPingAllowance(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	received := time.Now()
	sent := received.Add(-80 * time.Millisecond)
	rtt, ok := hub.UpdateHeartbeat(join.ID, received, sent.UnixMilli())
	if !ok {
		t.Fatal("heartbeat for live player refused")
	}
	if rtt < 70*time.Millisecond || rtt > 90*time.Millisecond {
		t.Fatalf("rtt = %v, want ~80ms", rtt)
	}

	hub.mu.Lock()
	ping := hub.players[join.ID].combat.Ping
	hub.mu.Unlock()
	if ping != rtt/2 {
		t.Fatalf("ping = %v, want %v", ping, rtt/2)
	}
}

func TestStepDisconnectsSilentPlayers(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	hub.mu.Lock()
	hub.players[join.ID].lastHeartbeat = time.Now().Add(-2 * disconnectAfter)
	hub.mu.Unlock()

	hub.step(time.Now())

	hub.mu.Lock()
	_, exists := hub.players[join.ID]
	hub.mu.Unlock()
	if exists {
		t.Fatal("silent player survived the liveness sweep")
	}
}

func TestStepRefillsAmmo(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	hub.mu.Lock()
	hub.players[join.ID].combat.Ammo = 0
	hub.players[join.ID].nextAmmoRefill = time.Now().Add(-time.Millisecond)
	hub.mu.Unlock()

	hub.step(time.Now())

	hub.mu.Lock()
	ammo := hub.players[join.ID].combat.Ammo
	hub.mu.Unlock()
	if ammo != 1 {
		t.Fatalf("ammo = %d after refill tick, want 1", ammo)
	}
}

func TestHandleTiltEnforcesBoundary(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	hub.mu.Lock()
	team := hub.players[join.ID].combat.Team
	hub.mu.Unlock()
	if team != world.TeamRed {
		t.Fatalf("first join on team %v, want red", team)
	}

	// Wander across the divider; the hub must record the position but the
	// correction impulse math must point back home.
	wrongSide := physics.Vec3{X: hub.tuning.Grid().Width() * 0.9, Y: 1.5, Z: 10}
	hub.HandleTilt(join.ID, physics.Vec3{X: 0.5}, wrongSide, time.Now().UnixMilli())

	hub.mu.Lock()
	defer hub.mu.Unlock()
	player := hub.players[join.ID]
	if player.combat.Position != wrongSide {
		t.Fatalf("position = %+v, want %+v", player.combat.Position, wrongSide)
	}
	impulse := hub.ledger.KickImpulse(wrongSide, player.combat.Team)
	if impulse.X >= 0 {
		t.Fatalf("impulse %+v does not push red back below the divider", impulse)
	}
}

func TestHandleTiltRateLimited(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	now := time.Now()
	pos := hub.spawnPosition(world.TeamRed)
	hub.HandleTilt(join.ID, physics.Vec3{X: 0.1}, pos, now.UnixMilli())
	hub.HandleTilt(join.ID, physics.Vec3{X: 0.9}, pos, now.UnixMilli())

	hub.mu.Lock()
	tilt := hub.players[join.ID].tilt
	hub.mu.Unlock()
	// The second update arrives inside the rate window and is dropped.
	if tilt != (physics.Vec3{X: 0.1}) {
		t.Fatalf("tilt = %+v, want the first update retained", tilt)
	}
}

func TestResolveCountsRejects(t *testing.T) {
	hub := newTestHub(t)
	join := hub.Join()

	// Firing with no tool equipped is a soft reject.
	out := hub.HandleFire(join.ID, FireCommand{
		Origin:    hub.spawnPosition(world.TeamRed),
		Direction: physics.Vec3{X: 1},
		Speed:     50,
		FiredAt:   time.Now().UnixMilli(),
	})
	if out.Verdict != combat.VerdictReject {
		t.Fatalf("verdict = %v, want soft reject", out.Verdict)
	}
	if snap := hub.TelemetrySnapshot(); snap.ValidationRejects != 1 {
		t.Fatalf("validationRejects = %d, want 1", snap.ValidationRejects)
	}
}
