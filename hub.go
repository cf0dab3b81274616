// Package server hosts the authoritative game hub: player registry, tick
// loop, validated action handling, and state broadcast.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"turf-war/server/internal/combat"
	"turf-war/server/internal/guard"
	"turf-war/server/internal/physics"
	"turf-war/server/internal/sim"
	"turf-war/server/internal/telemetry"
	"turf-war/server/internal/turf"
	"turf-war/server/internal/world"
	"turf-war/server/logging"
	networklog "turf-war/server/logging/network"
	turflog "turf-war/server/logging/turf"
)

// Hub owns all live players, their subscriptions, the block world, the turf
// ledger, and the projectile simulation. Gameplay state is mutated only under
// the hub mutex; the tick loop and the per-connection readers both funnel
// through it.
type Hub struct {
	mu          sync.Mutex
	tuning      Tuning
	players     map[string]*playerState
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
	tick        atomic.Uint64

	blocks    *world.Registry
	ledger    *turf.Ledger
	validator *combat.Validator
	caster    *sim.Caster
	limiter   *guard.RateLimiter

	counters *telemetryCounters
	pub      logging.Publisher
	logger   telemetry.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub wires the world, ledger, validator, and projectile engine from one
// tuning block. An unusable simulation pool is a hard startup error.
func NewHub(tuning Tuning, pub logging.Publisher, logger telemetry.Logger) (*Hub, error) {
	tuning = tuning.Normalized()
	if pub == nil {
		pub = logging.NopPublisher()
	}
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	blocks := world.NewRegistry(tuning.Grid(), tuning.BlockMaxHealth)
	ledger := turf.NewLedger(blocks, tuning.TurfPerKill)
	caster, err := sim.NewCaster(tuning.Sim, blocks, logging.SystemClock{}, logger)
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}

	return &Hub{
		tuning:      tuning,
		players:     make(map[string]*playerState),
		subscribers: make(map[string]*subscriber),
		blocks:      blocks,
		ledger:      ledger,
		validator:   combat.NewValidator(tuning.Combat, blocks, ledger, pub),
		caster:      caster,
		limiter:     guard.NewRateLimiter(guard.DefaultRateTolerance),
		counters:    newTelemetryCounters(),
		pub:         pub,
		logger:      logger,
	}, nil
}

// CurrentTuning returns the tuning the hub was built with.
func (h *Hub) CurrentTuning() Tuning { return h.tuning }

// Tick reports the current simulation tick.
func (h *Hub) Tick() uint64 { return h.tick.Load() }

// spawnPosition places each team in the middle of its own half, one cell off
// the ground.
func (h *Hub) spawnPosition(team world.TeamID) physics.Vec3 {
	grid := h.tuning.Grid()
	x := grid.Width() * 0.25
	if team == world.TeamBlue {
		x = grid.Width() * 0.75
	}
	return physics.Vec3{
		X: x,
		Y: grid.CellSize / 2,
		Z: float64(grid.CellsZ) * grid.CellSize / 2,
	}
}

// assignTeamLocked balances new players onto the smaller team, red first.
func (h *Hub) assignTeamLocked() world.TeamID {
	red, blue := 0, 0
	for _, p := range h.players {
		switch p.combat.Team {
		case world.TeamRed:
			red++
		case world.TeamBlue:
			blue++
		}
	}
	if blue < red {
		return world.TeamBlue
	}
	return world.TeamRed
}

// Join registers a new player and returns the snapshot it spawns into.
func (h *Hub) Join() joinResponse {
	id := h.nextID.Add(1)
	playerID := fmt.Sprintf("player-%d", id)
	now := time.Now()

	h.mu.Lock()
	team := h.assignTeamLocked()
	state := combat.NewPlayerState(playerID, team, h.tuning.Combat)
	state.CombatEnabled = true
	state.Position = h.spawnPosition(team)
	player := &playerState{
		combat:         state,
		lastHeartbeat:  now,
		nextAmmoRefill: now.Add(h.tuning.Combat.Slingshot.RefillInterval),
	}
	h.players[playerID] = player
	players := h.snapshotPlayersLocked()
	blocks := h.blocks.Snapshot()
	lanes := h.ledger.Lanes()
	cursor := h.ledger.Cursor()
	h.mu.Unlock()

	go h.broadcastState()

	return joinResponse{
		ID:         playerID,
		Team:       team.String(),
		Players:    players,
		Blocks:     blocks,
		Lanes:      lanes,
		Cursor:     cursor,
		Config:     h.tuning,
		ServerTime: now.UnixMilli(),
	}
}

// Subscribe attaches a websocket connection to an existing player and sends
// the initial state snapshot through it. All later writes on the connection
// go through the subscriber's write lock.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) bool {
	h.mu.Lock()
	player, ok := h.players[playerID]
	if !ok {
		h.mu.Unlock()
		return false
	}
	player.lastHeartbeat = time.Now()

	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}
	sub := &subscriber{conn: conn}
	h.subscribers[playerID] = sub

	data, err := json.Marshal(h.stateMessageLocked())
	h.mu.Unlock()

	if err != nil {
		h.logger.Printf("failed to marshal initial state for %s: %v", playerID, err)
		return false
	}
	if err := sub.write(data); err != nil {
		h.logger.Printf("initial state write to %s failed: %v", playerID, err)
		return false
	}
	return true
}

// Disconnect removes a player, its subscription, and its guard entries.
func (h *Hub) Disconnect(playerID string, reason string) {
	h.mu.Lock()
	if sub, ok := h.subscribers[playerID]; ok {
		delete(h.subscribers, playerID)
		sub.conn.Close()
	}
	_, existed := h.players[playerID]
	delete(h.players, playerID)
	h.limiter.Forget(playerID)
	h.validator.Records().Forget(playerID)
	h.mu.Unlock()

	if existed {
		networklog.Disconnect(context.Background(), h.pub, h.tick.Load(), playerID, reason)
		h.broadcastState()
	}
}

// UpdateHeartbeat refreshes liveness and derives the RTT that feeds the
// validators' ping allowance.
func (h *Hub) UpdateHeartbeat(playerID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	player, ok := h.players[playerID]
	if !ok {
		return 0, false
	}
	player.lastHeartbeat = receivedAt
	if clientSent > 0 {
		rtt := receivedAt.Sub(time.UnixMilli(clientSent))
		if rtt >= 0 {
			player.lastRTT = rtt
			player.combat.Ping = rtt / 2
		}
	}
	return player.lastRTT, true
}

// HandleTilt ingests one unreliable tilt update: rate limited, timestamp
// checked, position boundary enforced, then relayed to everyone else.
func (h *Hub) HandleTilt(playerID string, tilt, position physics.Vec3, sentAt int64) {
	now := time.Now()

	h.mu.Lock()
	player, ok := h.players[playerID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if !h.limiter.Allow(playerID, "tilt", now, minTiltInterval) {
		h.counters.rateLimited.Add(1)
		h.mu.Unlock()
		networklog.RateLimited(context.Background(), h.pub, h.tick.Load(), playerID, "tilt")
		return
	}
	if sentAt > 0 && !guard.ValidateTimestamp(time.UnixMilli(sentAt), now, player.combat.Ping, guard.DefaultPingTolerance) {
		h.counters.badTimestamps.Add(1)
		skew := now.Sub(time.UnixMilli(sentAt)).Seconds()
		h.mu.Unlock()
		networklog.BadTimestamp(context.Background(), h.pub, h.tick.Load(), playerID, skew)
		return
	}

	player.tilt = tilt
	player.combat.Position = position

	var kick *boundaryKickMessage
	if player.combat.Alive && !h.ledger.IsOnCorrectSide(position, player.combat.Team) {
		kick = &boundaryKickMessage{
			Type:    "boundaryKick",
			Impulse: h.ledger.KickImpulse(position, player.combat.Team),
		}
	}
	h.mu.Unlock()

	if kick != nil {
		h.SendTo(playerID, kick)
	}
	h.broadcastExcept(playerID, tiltChangedMessage{
		Type:     "tiltChanged",
		PlayerID: playerID,
		Tilt:     tilt,
		Position: position,
	})
}

// HandleEquip validates a tool equip.
func (h *Hub) HandleEquip(playerID, tool string) combat.Outcome {
	parsed, ok := combat.ParseTool(tool)
	h.mu.Lock()
	player, exists := h.players[playerID]
	if !exists {
		h.mu.Unlock()
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "unknown player"}
	}
	var out combat.Outcome
	if !ok {
		out = h.validator.EquipTool(h.tick.Load(), player.combat, combat.ToolNone)
	} else {
		out = h.validator.EquipTool(h.tick.Load(), player.combat, parsed)
	}
	h.mu.Unlock()
	return h.resolve(playerID, out)
}

// HandleUnequip stows the player's tool.
func (h *Hub) HandleUnequip(playerID string) combat.Outcome {
	h.mu.Lock()
	player, exists := h.players[playerID]
	if !exists {
		h.mu.Unlock()
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "unknown player"}
	}
	out := h.validator.UnequipTool(h.tick.Load(), player.combat)
	h.mu.Unlock()
	return h.resolve(playerID, out)
}

// FireCommand is a client fire request.
type FireCommand struct {
	Origin    physics.Vec3
	Direction physics.Vec3
	Speed     float64
	FiredAt   int64 // client timestamp, unix milliseconds
}

// HandleFire validates a fire request; accepted shots broadcast a visual-only
// projectile and enter the server-side simulation.
func (h *Hub) HandleFire(playerID string, cmd FireCommand) combat.Outcome {
	now := time.Now()

	h.mu.Lock()
	player, exists := h.players[playerID]
	if !exists {
		h.mu.Unlock()
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "unknown player"}
	}
	if !guard.ValidateTimestamp(time.UnixMilli(cmd.FiredAt), now, player.combat.Ping, guard.DefaultPingTolerance) {
		h.counters.badTimestamps.Add(1)
		skew := now.Sub(time.UnixMilli(cmd.FiredAt)).Seconds()
		h.mu.Unlock()
		networklog.BadTimestamp(context.Background(), h.pub, h.tick.Load(), playerID, skew)
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "bad timestamp"}
	}

	record, out := h.validator.FireProjectile(h.tick.Load(), player.combat, cmd.Origin, cmd.Direction, cmd.Speed, cmd.FiredAt, now)
	if out.Accepted() {
		h.caster.Cast(sim.CastRequest{
			Caster:   playerID,
			Origin:   record.Origin,
			Velocity: record.VelocityAtLaunch(),
			Gravity:  record.Gravity,
			Lifetime: record.Lifetime,
		})
	}
	h.mu.Unlock()

	if out.Accepted() {
		h.broadcast(projectileFiredMessage{
			Type:      "projectileFired",
			PlayerID:  playerID,
			Origin:    record.Origin,
			Direction: record.Direction,
			Speed:     record.Speed,
			FiredAt:   record.FiredAt,
		})
	}
	return h.resolve(playerID, out)
}

// HitCommand is a client-reported projectile hit.
type HitCommand struct {
	Target   string // "block" or "character"
	FiredAt  int64
	HitAt    int64
	Position physics.Vec3
	BlockID  uint64
	VictimID string
}

// HandleRegisterHit validates a reported hit and applies its effects: damage,
// kill accounting, turf claims, and the resulting broadcasts.
func (h *Hub) HandleRegisterHit(playerID string, cmd HitCommand) combat.Outcome {
	now := time.Now()

	h.mu.Lock()
	player, exists := h.players[playerID]
	if !exists {
		h.mu.Unlock()
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "unknown player"}
	}
	if !h.limiter.Allow(playerID, "registerHit", now, minHitInterval) {
		h.counters.rateLimited.Add(1)
		h.mu.Unlock()
		networklog.RateLimited(context.Background(), h.pub, h.tick.Load(), playerID, "registerHit")
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "rate limited"}
	}
	if !guard.ValidateTimestamp(time.UnixMilli(cmd.HitAt), now, player.combat.Ping, guard.DefaultPingTolerance) {
		h.counters.badTimestamps.Add(1)
		skew := now.Sub(time.UnixMilli(cmd.HitAt)).Seconds()
		h.mu.Unlock()
		networklog.BadTimestamp(context.Background(), h.pub, h.tick.Load(), playerID, skew)
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "bad timestamp"}
	}

	claim := combat.HitClaim{
		FiredAt:  cmd.FiredAt,
		HitAt:    cmd.HitAt,
		Position: cmd.Position,
		BlockID:  cmd.BlockID,
	}
	switch cmd.Target {
	case "block":
		claim.Kind = combat.HitBlock
	case "character":
		claim.Kind = combat.HitCharacter
		if victim, ok := h.players[cmd.VictimID]; ok {
			claim.Victim = victim.combat
		}
	}

	result, out := h.validator.RegisterHit(h.tick.Load(), player.combat, claim, now)

	var messages []any
	if out.Accepted() {
		if result.Block != nil {
			update := blockUpdateMessage{Type: "blockUpdate"}
			if result.BlockDestroyed {
				update.Destroyed = []uint64{result.Block.ID}
			} else {
				update.Damaged = []world.Block{*result.Block}
			}
			messages = append(messages, update)
		}
		if result.Lethal {
			if victim, ok := h.players[cmd.VictimID]; ok {
				victim.combat.Respawn(h.tuning.Combat)
				victim.combat.Position = h.spawnPosition(victim.combat.Team)
			}
		}
		if result.Claimed {
			messages = append(messages, turfChangedMessage{
				Type:            "turfChanged",
				Tick:            h.tick.Load(),
				Team:            result.Claim.Team.String(),
				Cursor:          result.Claim.NewCursor,
				ClaimedLanes:    result.Claim.ClaimedLanes,
				DestroyedBlocks: result.Claim.DestroyedBlocks,
			})
			turflog.Claim(context.Background(), h.pub, h.tick.Load(), result.Claim.Team.String(),
				result.Claim.NewCursor, result.Claim.ClaimedLanes, len(result.Claim.DestroyedBlocks))
			if result.Claim.Won {
				messages = append(messages, turfWonMessage{
					Type: "turfWon",
					Tick: h.tick.Load(),
					Team: result.Claim.Team.String(),
				})
				turflog.Win(context.Background(), h.pub, h.tick.Load(), result.Claim.Team.String())
			}
		}
	}
	h.mu.Unlock()

	for _, msg := range messages {
		h.broadcast(msg)
	}
	return h.resolve(playerID, out)
}

// HandleDamageBlock validates a hammer swing against one of the player's own
// blocks.
func (h *Hub) HandleDamageBlock(playerID string, blockID uint64) combat.Outcome {
	now := time.Now()

	h.mu.Lock()
	player, exists := h.players[playerID]
	if !exists {
		h.mu.Unlock()
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "unknown player"}
	}
	result, out := h.validator.DamageBlock(h.tick.Load(), player.combat, blockID, now)
	h.mu.Unlock()

	if out.Accepted() && result.Block != nil {
		update := blockUpdateMessage{Type: "blockUpdate"}
		if result.Destroyed {
			update.Destroyed = []uint64{result.Block.ID}
		} else {
			update.Damaged = []world.Block{*result.Block}
		}
		h.broadcast(update)
	}
	return h.resolve(playerID, out)
}

// HandlePlaceBlock validates a placement request at an exactly grid-snapped
// position.
func (h *Hub) HandlePlaceBlock(playerID string, position physics.Vec3) combat.Outcome {
	now := time.Now()

	h.mu.Lock()
	player, exists := h.players[playerID]
	if !exists {
		h.mu.Unlock()
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "unknown player"}
	}
	if !h.limiter.Allow(playerID, "placeBlock", now, minPlaceInterval) {
		h.counters.rateLimited.Add(1)
		h.mu.Unlock()
		networklog.RateLimited(context.Background(), h.pub, h.tick.Load(), playerID, "placeBlock")
		return combat.Outcome{Verdict: combat.VerdictReject, Reason: "rate limited"}
	}
	block, out := h.validator.PlaceBlock(h.tick.Load(), player.combat, position)
	h.mu.Unlock()

	if out.Accepted() && block != nil {
		h.broadcast(blockUpdateMessage{Type: "blockUpdate", Placed: []world.Block{*block}})
	}
	return h.resolve(playerID, out)
}

// resolve translates a validation outcome into its transport effect: rejects
// count, kicks close the session.
func (h *Hub) resolve(playerID string, out combat.Outcome) combat.Outcome {
	switch out.Verdict {
	case combat.VerdictReject:
		h.counters.validationRejects.Add(1)
	case combat.VerdictOffense:
		h.counters.offenses.Add(1)
	case combat.VerdictKick:
		h.kick(playerID, out.Reason)
	}
	return out
}

// kick closes the player's session with a policy-violation frame and removes
// them from the world.
func (h *Hub) kick(playerID, reason string) {
	h.counters.kicks.Add(1)

	h.mu.Lock()
	sub := h.subscribers[playerID]
	h.mu.Unlock()

	if sub != nil {
		if data, err := json.Marshal(kickMessage{Type: "kicked", Reason: reason}); err == nil {
			sub.write(data)
		}
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
		sub.mu.Lock()
		sub.conn.WriteMessage(websocket.CloseMessage, message)
		sub.mu.Unlock()
	}
	h.Disconnect(playerID, "kicked: "+reason)
}

// RunSimulation drives the fixed-rate tick loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(h.tuning.FrameDt())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.step(time.Now())
		}
	}
}

// step advances one tick: liveness, ammo refills, the projectile sweep, and
// the state broadcast.
func (h *Hub) step(now time.Time) {
	started := time.Now()
	tick := h.tick.Add(1)

	h.mu.Lock()
	var timedOut []string
	for id, player := range h.players {
		if now.Sub(player.lastHeartbeat) > disconnectAfter {
			timedOut = append(timedOut, id)
			continue
		}
		if !player.nextAmmoRefill.After(now) {
			player.combat.RefillAmmo(h.tuning.Combat)
			player.nextAmmoRefill = now.Add(h.tuning.Combat.Slingshot.RefillInterval)
		}
	}
	if tick%recordPurgeTicks == 0 {
		h.validator.Records().PurgeExpired(now)
	}

	elapsed := time.Since(started)
	impacts := h.caster.Step(now, h.tuning.FrameDt(), elapsed)

	data, entities, err := h.marshalStateLocked()
	h.mu.Unlock()

	for _, id := range timedOut {
		h.Disconnect(id, "heartbeat timeout")
	}
	for _, impact := range impacts {
		h.broadcast(projectileImpactMessage{
			Type:     "projectileImpact",
			PlayerID: impact.Caster,
			Position: impact.Hit.Position,
			Ground:   impact.Hit.Ground,
			BlockID:  impact.Hit.BlockID,
		})
	}
	if err != nil {
		h.logger.Printf("failed to marshal state: %v", err)
	} else {
		h.send(data, entities)
	}
	h.counters.RecordTickDuration(time.Since(started))
}

func (h *Hub) snapshotPlayersLocked() []Player {
	players := make([]Player, 0, len(h.players))
	for _, player := range h.players {
		players = append(players, player.snapshot())
	}
	return players
}

func (h *Hub) stateMessageLocked() stateMessage {
	return stateMessage{
		Type:       "state",
		Tick:       h.tick.Load(),
		ServerTime: time.Now().UnixMilli(),
		Players:    h.snapshotPlayersLocked(),
		Blocks:     h.blocks.Snapshot(),
		Lanes:      h.ledger.Lanes(),
		Cursor:     h.ledger.Cursor(),
	}
}

func (h *Hub) marshalStateLocked() ([]byte, int, error) {
	msg := h.stateMessageLocked()
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, 0, err
	}
	return data, len(msg.Players) + len(msg.Blocks), nil
}

// broadcastState snapshots the world under the lock and fans the state
// message out.
func (h *Hub) broadcastState() {
	h.mu.Lock()
	data, entities, err := h.marshalStateLocked()
	h.mu.Unlock()
	if err != nil {
		h.logger.Printf("failed to marshal state: %v", err)
		return
	}
	h.send(data, entities)
}

func (h *Hub) send(data []byte, entities int) {
	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("write to %s failed: %v", id, err)
		}
	}
	h.counters.RecordBroadcast(len(data)*len(subs), entities)
}

func (h *Hub) broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal broadcast: %v", err)
		return
	}
	h.send(data, 0)
}

func (h *Hub) broadcastExcept(playerID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		if id != playerID {
			subs[id] = sub
		}
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("write to %s failed: %v", id, err)
		}
	}
}

// SendTo delivers one message to a single player through the subscriber's
// write lock.
func (h *Hub) SendTo(playerID string, payload any) {
	h.mu.Lock()
	sub := h.subscribers[playerID]
	h.mu.Unlock()
	if sub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal message for %s: %v", playerID, err)
		return
	}
	if err := sub.write(data); err != nil {
		h.logger.Printf("write to %s failed: %v", playerID, err)
	}
}

// DiagnosticsSnapshot lists per-player liveness for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsPlayer {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]diagnosticsPlayer, 0, len(h.players))
	for _, player := range h.players {
		out = append(out, diagnosticsPlayer{
			ID:            player.combat.ID,
			Team:          player.combat.Team.String(),
			LastHeartbeat: player.lastHeartbeat.UnixMilli(),
			RTTMillis:     player.lastRTT.Milliseconds(),
			Offenses:      player.combat.Offenses(),
		})
	}
	return out
}

// TelemetrySnapshot aggregates hub, simulation, and logging counters.
func (h *Hub) TelemetrySnapshot() telemetrySnapshot {
	snap := h.counters.snapshot()

	h.mu.Lock()
	stats := h.caster.Stats()
	snap.DeferredLast = h.caster.DeferredLastStep()
	snap.PendingHits = h.validator.Records().Len()
	h.mu.Unlock()

	snap.CastsTotal = stats.CastsTotal
	snap.DroppedCasts = stats.DroppedCasts
	snap.BacklogDrops = stats.BacklogDrops
	snap.InFlight = stats.InFlight
	if router, ok := h.pub.(*logging.Router); ok {
		routerStats := router.Stats()
		snap.EventsTotal = routerStats.EventsTotal
		snap.EventsDropped = routerStats.DroppedTotal
	}
	return snap
}
