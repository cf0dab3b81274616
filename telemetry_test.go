package server

import (
	"testing"
	"time"
)

func TestTelemetryCountersTrackBroadcasts(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordBroadcast(100, 5)
	counters.RecordBroadcast(40, 2)
	counters.RecordTickDuration(3 * time.Millisecond)

	snap := counters.snapshot()
	if snap.BytesSent != 140 || snap.EntitiesSent != 7 {
		t.Fatalf("totals = %d bytes / %d entities, want 140 / 7", snap.BytesSent, snap.EntitiesSent)
	}
	if snap.LastBroadcastBytes != 40 || snap.LastBroadcastEntities != 2 {
		t.Fatalf("last broadcast = %d bytes / %d entities, want 40 / 2",
			snap.LastBroadcastBytes, snap.LastBroadcastEntities)
	}
	if snap.TickDuration != 3 {
		t.Fatalf("tick duration = %dms, want 3", snap.TickDuration)
	}
}

func TestTelemetryCountersClampNegativeInput(t *testing.T) {
	counters := newTelemetryCounters()
	counters.RecordBroadcast(-5, -1)
	counters.RecordTickDuration(-time.Millisecond)

	snap := counters.snapshot()
	if snap.BytesSent != 0 || snap.EntitiesSent != 0 || snap.TickDuration != 0 {
		t.Fatalf("negative inputs not clamped: %+v", snap)
	}
}
