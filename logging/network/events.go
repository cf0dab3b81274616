// Package network holds typed transport-guard event constructors.
package network

import (
	"context"

	"turf-war/server/logging"
)

const (
	// EventRateLimited is emitted when a request arrives before its event's
	// cooldown has elapsed.
	EventRateLimited logging.EventType = "network.rate_limited"
	// EventBadTimestamp is emitted when a client timestamp fails validation.
	EventBadTimestamp logging.EventType = "network.bad_timestamp"
	// EventDisconnect is emitted when a session ends.
	EventDisconnect logging.EventType = "network.disconnect"
)

// RateLimited publishes a rate-limiter rejection.
func RateLimited(ctx context.Context, pub logging.Publisher, tick uint64, playerID, event string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRateLimited,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Extra:    map[string]any{"event": event},
	})
}

// BadTimestamp publishes a timestamp-validation rejection.
func BadTimestamp(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, skewSeconds float64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBadTimestamp,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Extra:    map[string]any{"skewSeconds": skewSeconds},
	})
}

// Disconnect publishes a session teardown.
func Disconnect(ctx context.Context, pub logging.Publisher, tick uint64, playerID, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDisconnect,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: "player"},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Extra:    map[string]any{"reason": reason},
	})
}
