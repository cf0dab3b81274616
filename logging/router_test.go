package logging_test

import (
	"context"
	"testing"
	"time"

	"turf-war/server/logging"
	"turf-war/server/logging/sinks"
)

func TestRouterDeliversToSinks(t *testing.T) {
	memory := sinks.NewMemory()
	router := logging.NewRouter(logging.DefaultConfig(), nil, memory)

	router.Publish(context.Background(), logging.Event{
		Type:     "combat.hit",
		Severity: logging.SeverityInfo,
		Actor:    logging.EntityRef{ID: "player-1", Kind: "player"},
	})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(events))
	}
	if events[0].Type != "combat.hit" {
		t.Fatalf("unexpected event type %q", events[0].Type)
	}
	if events[0].Time.IsZero() {
		t.Fatal("router must stamp event time")
	}

	stats := router.Stats()
	if stats.EventsTotal != 1 || stats.DroppedTotal != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRouterFiltersBySeverity(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.MinimumSeverity = logging.SeverityWarn
	router := logging.NewRouter(cfg, nil, memory)

	router.Publish(context.Background(), logging.Event{Type: "network.rate_limited", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "combat.kick", Severity: logging.SeverityWarn})

	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 || events[0].Type != "combat.kick" {
		t.Fatalf("severity filter failed, delivered %v", events)
	}
}

func TestRouterAppliesSharedFields(t *testing.T) {
	memory := sinks.NewMemory()
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"round": "round-7"}
	router := logging.NewRouter(cfg, logging.ClockFunc(func() time.Time {
		return time.Unix(1000, 0)
	}), memory)

	router.Publish(context.Background(), logging.Event{Type: "turf.claim", Severity: logging.SeverityInfo})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Extra["round"] != "round-7" {
		t.Fatalf("shared field missing: %v", events[0].Extra)
	}
	if !events[0].Time.Equal(time.Unix(1000, 0)) {
		t.Fatalf("clock not honored: %v", events[0].Time)
	}
}
