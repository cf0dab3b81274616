package combat

import (
	"context"
	"strconv"
	"time"

	"turf-war/server/internal/physics"
	"turf-war/server/internal/turf"
	"turf-war/server/internal/world"
	"turf-war/server/logging"
	combatlog "turf-war/server/logging/combat"
	turflog "turf-war/server/logging/turf"
)

// Validator is the server-authoritative gate between untrusted client actions
// and world/ledger state. Handlers are synchronous, never suspend, and absorb
// every failure into an Outcome.
type Validator struct {
	cfg     Config
	blocks  *world.Registry
	ledger  *turf.Ledger
	records *RecordStore
	pub     logging.Publisher
}

// NewValidator wires the validation services.
func NewValidator(cfg Config, blocks *world.Registry, ledger *turf.Ledger, pub logging.Publisher) *Validator {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Validator{
		cfg:     cfg,
		blocks:  blocks,
		ledger:  ledger,
		records: NewRecordStore(),
		pub:     pub,
	}
}

// Config exposes the injected tuning.
func (v *Validator) Config() Config { return v.cfg }

// Records exposes the pending-record store for tick-driven expiry.
func (v *Validator) Records() *RecordStore { return v.records }

// offense escalates the player's counter and converts it into a kick once the
// maximum is crossed.
func (v *Validator) offense(tick uint64, p *PlayerState, action, reason string) Outcome {
	p.offenses++
	if p.offenses >= v.cfg.MaxKickOffenses {
		combatlog.Kick(context.Background(), v.pub, tick, p.ID, reason)
		return Outcome{Verdict: VerdictKick, Reason: reason}
	}
	combatlog.Violation(context.Background(), v.pub, tick, p.ID, action, reason, VerdictOffense.String(), p.offenses)
	return Outcome{Verdict: VerdictOffense, Reason: reason}
}

// hardKick removes the player immediately; reserved for claims that cannot
// occur under honest client logic.
func (v *Validator) hardKick(tick uint64, p *PlayerState, reason string) Outcome {
	combatlog.Kick(context.Background(), v.pub, tick, p.ID, reason)
	return Outcome{Verdict: VerdictKick, Reason: reason}
}

func (v *Validator) softReject(tick uint64, p *PlayerState, action, reason string) Outcome {
	combatlog.Violation(context.Background(), v.pub, tick, p.ID, action, reason, VerdictReject.String(), 0)
	return reject(reason)
}

// EquipTool swaps the player's equipped tool.
func (v *Validator) EquipTool(tick uint64, p *PlayerState, tool ToolType) Outcome {
	if p == nil || !p.Alive {
		return reject("not alive")
	}
	if tool != ToolHammer && tool != ToolSlingshot {
		return v.softReject(tick, p, "equip", "unknown tool")
	}
	p.Tool = tool
	return accept()
}

// UnequipTool stows the current tool.
func (v *Validator) UnequipTool(tick uint64, p *PlayerState) Outcome {
	if p == nil || !p.Alive {
		return reject("not alive")
	}
	p.Tool = ToolNone
	return accept()
}

// DamageBlockResult reports an applied hammer swing.
type DamageBlockResult struct {
	Block     *world.Block
	Destroyed bool
}

// DamageBlock validates a hammer swing against one of the player's own
// blocks. Swinging at an enemy block cannot happen honestly and escalates.
func (v *Validator) DamageBlock(tick uint64, p *PlayerState, blockID uint64, now time.Time) (DamageBlockResult, Outcome) {
	if p == nil || !p.Alive {
		return DamageBlockResult{}, reject("not alive")
	}
	if p.Tool != ToolHammer {
		return DamageBlockResult{}, v.softReject(tick, p, "damageBlock", "hammer not equipped")
	}
	block, ok := v.blocks.ByID(blockID)
	if !ok {
		return DamageBlockResult{}, v.softReject(tick, p, "damageBlock", "no such block")
	}
	if block.Team != p.Team {
		return DamageBlockResult{}, v.offense(tick, p, "damageBlock", "enemy block")
	}

	cooldown := Cooldown(v.cfg.Hammer.RatePerMinute) - v.cfg.PingTolerance
	if !p.lastDamage.IsZero() && now.Sub(p.lastDamage) < cooldown {
		return DamageBlockResult{}, v.softReject(tick, p, "damageBlock", "cooldown")
	}

	reach := v.cfg.Hammer.Range + v.blocks.Grid().CellSize/2 + v.cfg.OriginTolerance
	if p.Position.DistanceTo(block.Position) > reach {
		return DamageBlockResult{}, v.softReject(tick, p, "damageBlock", "out of range")
	}

	p.lastDamage = now
	block, destroyed := v.blocks.Damage(blockID, v.cfg.Hammer.Damage)
	if destroyed {
		v.ledger.ForgetBlock(block)
		p.Blocks++
	}
	return DamageBlockResult{Block: block, Destroyed: destroyed}, accept()
}

// PlaceBlock validates a block placement request. The requested position must
// already be exactly grid snapped; the server never "helpfully" snaps it.
func (v *Validator) PlaceBlock(tick uint64, p *PlayerState, pos physics.Vec3) (*world.Block, Outcome) {
	if p == nil || !p.Alive {
		return nil, reject("not alive")
	}
	if p.Tool != ToolHammer {
		return nil, v.softReject(tick, p, "placeBlock", "hammer not equipped")
	}
	if p.Blocks <= 0 {
		return nil, v.softReject(tick, p, "placeBlock", "no blocks left")
	}
	grid := v.blocks.Grid()
	if !grid.ContainsPosition(pos) || pos != grid.Snap(pos) {
		return nil, v.softReject(tick, p, "placeBlock", "off grid")
	}
	if !v.ledger.IsPositionOnTurf(pos, p.Team) {
		return nil, v.softReject(tick, p, "placeBlock", "not on own turf")
	}
	reach := v.cfg.Hammer.Range + grid.CellSize/2 + v.cfg.OriginTolerance
	if p.Position.DistanceTo(pos) > reach {
		return nil, v.softReject(tick, p, "placeBlock", "out of range")
	}
	if v.blocks.Occupied(pos) {
		return nil, v.softReject(tick, p, "placeBlock", "cell occupied")
	}

	block, err := v.blocks.Place(pos, p.Team)
	if err != nil {
		return nil, v.softReject(tick, p, "placeBlock", err.Error())
	}
	if err := v.ledger.RegisterBlock(block); err != nil {
		v.blocks.Remove(block.ID)
		turflog.BlockRejected(context.Background(), v.pub, tick, p.ID, grid.LaneOf(pos.X))
		return nil, v.softReject(tick, p, "placeBlock", err.Error())
	}
	p.Blocks--
	return block, accept()
}

// FireProjectile validates a fire request and persists its record for later
// hit registration. The broadcast to other clients is visual only; damage
// waits for a validated hit.
func (v *Validator) FireProjectile(tick uint64, p *PlayerState, origin, direction physics.Vec3, speed float64, firedAt int64, now time.Time) (ProjectileRecord, Outcome) {
	if p == nil || !p.Alive || !p.CombatEnabled {
		return ProjectileRecord{}, reject("combat disabled")
	}
	if p.Tool != ToolSlingshot {
		return ProjectileRecord{}, v.softReject(tick, p, "fire", "slingshot not equipped")
	}
	if origin.DistanceTo(p.Position) > v.cfg.OriginTolerance {
		return ProjectileRecord{}, v.offense(tick, p, "fire", "origin too far from character")
	}
	// A zero direction cannot come from honest client code.
	if direction.IsZero() {
		return ProjectileRecord{}, v.hardKick(tick, p, "zero fire direction")
	}
	if speed <= 0 || speed > v.cfg.Slingshot.MaxSpeed {
		return ProjectileRecord{}, v.hardKick(tick, p, "impossible fire speed")
	}
	// Fire-rate violations can be network jitter, so they escalate instead of
	// kicking outright.
	cooldown := Cooldown(v.cfg.Slingshot.RatePerMinute) - v.cfg.PingTolerance
	if !p.lastFire.IsZero() && now.Sub(p.lastFire) < cooldown {
		return ProjectileRecord{}, v.offense(tick, p, "fire", "fire rate exceeded")
	}
	if p.Ammo <= 0 {
		return ProjectileRecord{}, v.softReject(tick, p, "fire", "out of ammo")
	}

	record := ProjectileRecord{
		PlayerID:  p.ID,
		FiredAt:   firedAt,
		Origin:    origin,
		Direction: direction.Normalize(),
		Speed:     speed,
		Gravity:   physics.Vec3{Y: -v.cfg.Slingshot.Gravity},
		Lifetime:  v.cfg.Slingshot.Lifetime,
	}
	if !v.records.Insert(record, now, v.cfg.PingTolerance) {
		return ProjectileRecord{}, v.offense(tick, p, "fire", "duplicate fire timestamp")
	}

	p.lastFire = now
	p.Ammo--
	return record, accept()
}

// HitKind selects the claimed target category.
type HitKind string

const (
	HitBlock     HitKind = "block"
	HitCharacter HitKind = "character"
)

// HitClaim is a client-reported projectile hit awaiting validation.
type HitClaim struct {
	Kind     HitKind
	FiredAt  int64 // client fire timestamp, unix milliseconds
	HitAt    int64 // client hit timestamp, unix milliseconds
	Position physics.Vec3
	BlockID  uint64
	Victim   *PlayerState
}

// HitResult reports validated hit effects for broadcasting.
type HitResult struct {
	Damage         float64
	Lethal         bool
	BlockDestroyed bool
	Block          *world.Block
	Victim         *PlayerState
	Claim          turf.ClaimResult
	Claimed        bool
}

// RegisterHit validates a client-reported projectile hit by re-deriving the
// projectile's position at the claimed elapsed time and requiring both the
// claimed hit position and the server-known position of the named target to
// lie on that trajectory. This re-derivation is what makes client-side hit
// detection trustworthy.
func (v *Validator) RegisterHit(tick uint64, p *PlayerState, claim HitClaim, now time.Time) (HitResult, Outcome) {
	if p == nil || !p.CombatEnabled {
		return HitResult{}, reject("combat disabled")
	}

	record, ok := v.records.Take(p.ID, claim.FiredAt, now)
	if !ok {
		// Stale or forged: nothing to validate against.
		return HitResult{}, v.offense(tick, p, "registerHit", "no matching projectile record")
	}

	elapsed := time.Duration(claim.HitAt-claim.FiredAt) * time.Millisecond
	if elapsed < 0 || elapsed > record.Lifetime+v.cfg.PingTolerance {
		return HitResult{}, v.offense(tick, p, "registerHit", "hit outside projectile lifetime")
	}

	dt := elapsed.Seconds()
	expected := physics.PositionAt(record.Origin, record.VelocityAtLaunch(), record.Gravity, dt)
	if expected.DistanceTo(claim.Position) > v.cfg.HitTolerance {
		return HitResult{}, v.offense(tick, p, "registerHit", "claimed hit position diverges from trajectory")
	}

	speedAtHit := physics.VelocityAt(record.VelocityAtLaunch(), record.Gravity, dt).Length()
	damage := v.cfg.Slingshot.BaseDamage + v.cfg.Slingshot.SpeedMultiplier*speedAtHit

	switch claim.Kind {
	case HitBlock:
		block, ok := v.blocks.ByID(claim.BlockID)
		if !ok {
			return HitResult{}, v.softReject(tick, p, "registerHit", "no such block")
		}
		if block.Team == p.Team {
			return HitResult{}, v.offense(tick, p, "registerHit", "own team block")
		}
		if expected.DistanceTo(block.Position) > v.cfg.HitTolerance {
			return HitResult{}, v.offense(tick, p, "registerHit", "named block not on trajectory")
		}
		block, destroyed := v.blocks.Damage(claim.BlockID, damage)
		if destroyed {
			v.ledger.ForgetBlock(block)
			// Destroying an enemy block grants the shooter the resource.
			p.Blocks++
		}
		combatlog.Hit(context.Background(), v.pub, tick, p.ID, blockRef(block), "block", damage, false)
		return HitResult{Damage: damage, Block: block, BlockDestroyed: destroyed}, accept()

	case HitCharacter:
		victim := claim.Victim
		if victim == nil || !victim.Alive {
			return HitResult{}, v.softReject(tick, p, "registerHit", "no living target")
		}
		if victim.Team == p.Team {
			return HitResult{}, v.offense(tick, p, "registerHit", "teammate")
		}
		if expected.DistanceTo(victim.Position) > v.cfg.HitTolerance {
			return HitResult{}, v.offense(tick, p, "registerHit", "named victim not on trajectory")
		}
		lethal := victim.ApplyDamage(damage)
		result := HitResult{Damage: damage, Lethal: lethal, Victim: victim}
		if lethal {
			p.Kills++
			if claimResult, claimed := v.ledger.RegisterKill(p.Team); claimed {
				result.Claim = claimResult
				result.Claimed = true
			}
		}
		combatlog.Hit(context.Background(), v.pub, tick, p.ID, victim.ID, "character", damage, lethal)
		return result, accept()

	default:
		return HitResult{}, v.softReject(tick, p, "registerHit", "unknown hit kind")
	}
}

func blockRef(block *world.Block) string {
	if block == nil {
		return "block"
	}
	return "block-" + strconv.FormatUint(block.ID, 10)
}
