package network_test

import (
	"context"
	"testing"

	"turf-war/server/logging"
	"turf-war/server/logging/network"
	"turf-war/server/logging/sinks"
)

func TestRateLimitedClearsDefaultSeverityFloor(t *testing.T) {
	memory := sinks.NewMemory()
	router := logging.NewRouter(logging.DefaultConfig(), nil, memory)

	network.RateLimited(context.Background(), router, 7, "player-1", "placeBlock")

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(events))
	}
	if events[0].Type != network.EventRateLimited {
		t.Fatalf("unexpected event type %q", events[0].Type)
	}
	if events[0].Extra["event"] != "placeBlock" {
		t.Fatalf("throttled event name missing: %v", events[0].Extra)
	}
}
