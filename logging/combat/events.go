// Package combat holds the typed combat/anticheat event constructors.
package combat

import (
	"context"

	"turf-war/server/logging"
)

const (
	// EventViolation is emitted when a client request fails validation.
	EventViolation logging.EventType = "combat.violation"
	// EventKick is emitted when a player crosses the offense threshold.
	EventKick logging.EventType = "combat.kick"
	// EventHit is emitted when a validated projectile hit applies damage.
	EventHit logging.EventType = "combat.hit"
	// EventKill is emitted when a validated hit is lethal.
	EventKill logging.EventType = "combat.kill"
)

// ViolationPayload captures why a request was refused.
type ViolationPayload struct {
	Action   string `json:"action"`
	Reason   string `json:"reason"`
	Verdict  string `json:"verdict"`
	Offenses int    `json:"offenses,omitempty"`
}

// Violation publishes a validation failure.
func Violation(ctx context.Context, pub logging.Publisher, tick uint64, playerID, action, reason, verdict string, offenses int) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if verdict != "soft-reject" {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventViolation,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: severity,
		Category: logging.CategoryAnticheat,
		Payload:  ViolationPayload{Action: action, Reason: reason, Verdict: verdict, Offenses: offenses},
	})
}

// Kick publishes a player removal decision.
func Kick(ctx context.Context, pub logging.Publisher, tick uint64, playerID, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventKick,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryAnticheat,
		Payload:  ViolationPayload{Action: "kick", Reason: reason, Verdict: "kick"},
	})
}

// HitPayload captures an applied projectile hit.
type HitPayload struct {
	Target string  `json:"target"`
	Kind   string  `json:"kind"`
	Damage float64 `json:"damage"`
	Lethal bool    `json:"lethal,omitempty"`
}

// Hit publishes damage applied by a validated projectile hit.
func Hit(ctx context.Context, pub logging.Publisher, tick uint64, playerID, target, kind string, damage float64, lethal bool) {
	if pub == nil {
		return
	}
	eventType := EventHit
	if lethal {
		eventType = EventKill
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  HitPayload{Target: target, Kind: kind, Damage: damage, Lethal: lethal},
	})
}
