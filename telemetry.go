package server

import (
	"sync/atomic"
	"time"
)

// telemetryCounters aggregates hot-path counters. All fields are atomics so
// recording never contends with the hub mutex.
type telemetryCounters struct {
	bytesSent             atomic.Uint64
	entitiesSent          atomic.Uint64
	lastBroadcastBytes    atomic.Uint64
	lastBroadcastEntities atomic.Uint64
	tickDurationMillis    atomic.Int64

	validationRejects atomic.Uint64
	offenses          atomic.Uint64
	kicks             atomic.Uint64
	rateLimited       atomic.Uint64
	badTimestamps     atomic.Uint64
}

type telemetrySnapshot struct {
	BytesSent             uint64 `json:"bytesSent"`
	EntitiesSent          uint64 `json:"entitiesSent"`
	LastBroadcastBytes    uint64 `json:"lastBroadcastBytes"`
	LastBroadcastEntities uint64 `json:"lastBroadcastEntities"`
	TickDuration          int64  `json:"tickDurationMillis"`
	ValidationRejects     uint64 `json:"validationRejects"`
	Offenses              uint64 `json:"offenses"`
	Kicks                 uint64 `json:"kicks"`
	RateLimited           uint64 `json:"rateLimited"`
	BadTimestamps         uint64 `json:"badTimestamps"`

	CastsTotal    uint64 `json:"castsTotal"`
	DroppedCasts  uint64 `json:"droppedCasts"`
	BacklogDrops  uint64 `json:"backlogDrops"`
	InFlight      int    `json:"inFlight"`
	DeferredLast  int    `json:"deferredLastStep"`
	PendingHits   int    `json:"pendingHitRecords"`
	EventsTotal   uint64 `json:"logEventsTotal"`
	EventsDropped uint64 `json:"logEventsDropped"`
}

func newTelemetryCounters() *telemetryCounters {
	return &telemetryCounters{}
}

func (t *telemetryCounters) RecordBroadcast(bytes, entities int) {
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	t.bytesSent.Add(uint64(bytes))
	t.entitiesSent.Add(uint64(entities))
	t.lastBroadcastBytes.Store(uint64(bytes))
	t.lastBroadcastEntities.Store(uint64(entities))
}

func (t *telemetryCounters) RecordTickDuration(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.tickDurationMillis.Store(millis)
}

func (t *telemetryCounters) snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		BytesSent:             t.bytesSent.Load(),
		EntitiesSent:          t.entitiesSent.Load(),
		LastBroadcastBytes:    t.lastBroadcastBytes.Load(),
		LastBroadcastEntities: t.lastBroadcastEntities.Load(),
		TickDuration:          t.tickDurationMillis.Load(),
		ValidationRejects:     t.validationRejects.Load(),
		Offenses:              t.offenses.Load(),
		Kicks:                 t.kicks.Load(),
		RateLimited:           t.rateLimited.Load(),
		BadTimestamps:         t.badTimestamps.Load(),
	}
}
