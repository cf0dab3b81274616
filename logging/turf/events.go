// Package turf holds typed turf-ledger event constructors.
package turf

import (
	"context"

	"turf-war/server/logging"
)

const (
	// EventClaim is emitted when a kill claims lanes.
	EventClaim logging.EventType = "turf.claim"
	// EventWin is emitted when the cursor reaches a terminal bound.
	EventWin logging.EventType = "turf.win"
	// EventBlockRejected is emitted when a block falls outside the strip.
	EventBlockRejected logging.EventType = "turf.block_rejected"
)

// ClaimPayload describes one turf claim.
type ClaimPayload struct {
	Team            string `json:"team"`
	NewCursor       int    `json:"newCursor"`
	ClaimedLanes    []int  `json:"claimedLanes,omitempty"`
	DestroyedBlocks int    `json:"destroyedBlocks"`
}

// Claim publishes a lane claim.
func Claim(ctx context.Context, pub logging.Publisher, tick uint64, team string, newCursor int, lanes []int, destroyed int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventClaim,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryTurf,
		Payload:  ClaimPayload{Team: team, NewCursor: newCursor, ClaimedLanes: lanes, DestroyedBlocks: destroyed},
	})
}

// Win publishes the terminal transition.
func Win(ctx context.Context, pub logging.Publisher, tick uint64, team string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWin,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryTurf,
		Payload:  ClaimPayload{Team: team},
	})
}

// BlockRejected publishes an out-of-strip block registration.
func BlockRejected(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, lane int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBlockRejected,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryTurf,
		Extra:    map[string]any{"lane": lane},
	})
}
