// Package guard enforces the transport-side request policy: per-(player,
// event) rate limits and client timestamp validation.
package guard

import (
	"time"
)

// DefaultRateTolerance absorbs network jitter when comparing against an
// event's minimum interval.
const DefaultRateTolerance = 15 * time.Millisecond

// DefaultPingTolerance is the slack added on top of a player's measured ping
// when validating claimed timestamps.
const DefaultPingTolerance = 50 * time.Millisecond

type rateKey struct {
	playerID string
	event    string
}

// RateLimiter tracks the last accepted time of every (player, event) pair.
// It is driven only from the hub goroutine and needs no lock.
type RateLimiter struct {
	tolerance time.Duration
	last      map[rateKey]time.Time
}

// NewRateLimiter builds a limiter with the given jitter tolerance.
func NewRateLimiter(tolerance time.Duration) *RateLimiter {
	if tolerance <= 0 {
		tolerance = DefaultRateTolerance
	}
	return &RateLimiter{
		tolerance: tolerance,
		last:      make(map[rateKey]time.Time),
	}
}

// Allow accepts the request iff at least minInterval - tolerance has elapsed
// since the last accepted request for the same pair. Accepted requests update
// the ledger; rejected ones do not.
func (r *RateLimiter) Allow(playerID, event string, now time.Time, minInterval time.Duration) bool {
	key := rateKey{playerID: playerID, event: event}
	if last, ok := r.last[key]; ok {
		if now.Sub(last) < minInterval-r.tolerance {
			return false
		}
	}
	r.last[key] = now
	return true
}

// Forget purges every entry for a disconnecting player.
func (r *RateLimiter) Forget(playerID string) {
	for key := range r.last {
		if key.playerID == playerID {
			delete(r.last, key)
		}
	}
}

// Len reports the number of tracked pairs, for diagnostics.
func (r *RateLimiter) Len() int { return len(r.last) }

// ValidateTimestamp checks a claimed client timestamp against server time:
// it must not be in the future and must not lag behind by more than the
// player's ping plus the tolerance.
func ValidateTimestamp(claimed, serverNow time.Time, ping, tolerance time.Duration) bool {
	if claimed.After(serverNow) {
		return false
	}
	if tolerance <= 0 {
		tolerance = DefaultPingTolerance
	}
	return serverNow.Sub(claimed) <= ping+tolerance
}
