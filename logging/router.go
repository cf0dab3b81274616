package logging

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"
)

// Sink receives routed events. Write must be safe to call from the router
// goroutine only.
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

// Config tunes the router.
type Config struct {
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	DropWarnInterval time.Duration
}

// DefaultConfig matches production defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
	}
}

// Router fans events out to sinks from a single dispatcher goroutine. Publish
// never blocks: when the buffer is full the event is dropped and accounted.
type Router struct {
	cfg      Config
	clock    Clock
	queue    chan Event
	sinks    []Sink
	fallback *log.Logger

	cancel context.CancelFunc
	done   chan struct{}
	closed atomic.Bool

	eventsTotal  atomic.Uint64
	droppedTotal atomic.Uint64
	lastDropWarn atomic.Int64
}

// RouterStats exposes delivery counters for diagnostics.
type RouterStats struct {
	EventsTotal  uint64 `json:"eventsTotal"`
	DroppedTotal uint64 `json:"droppedTotal"`
}

// NewRouter starts the dispatcher over the provided sinks.
func NewRouter(cfg Config, clock Clock, sinks ...Sink) *Router {
	if clock == nil {
		clock = SystemClock{}
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 512
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Router{
		cfg:      cfg,
		clock:    clock,
		queue:    make(chan Event, buffer),
		sinks:    sinks,
		fallback: log.New(os.Stderr, "[logging] ", log.LstdFlags),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go r.dispatch(ctx)
	return r
}

func (r *Router) dispatch(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-r.queue:
					r.deliver(event)
				default:
					return
				}
			}
		case event := <-r.queue:
			r.deliver(event)
		}
	}
}

func (r *Router) deliver(event Event) {
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	if len(r.cfg.Fields) > 0 {
		if event.Extra == nil {
			event.Extra = make(map[string]any, len(r.cfg.Fields))
		}
		for k, v := range r.cfg.Fields {
			if _, exists := event.Extra[k]; !exists {
				event.Extra[k] = v
			}
		}
	}
	r.eventsTotal.Add(1)
	for _, sink := range r.sinks {
		if err := sink.Write(event); err != nil {
			r.fallback.Printf("sink write failed: %v", err)
		}
	}
}

// Publish enqueues an event, dropping it when the router is saturated.
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || r.closed.Load() {
		return
	}
	if event.Severity < r.cfg.MinimumSeverity {
		return
	}
	select {
	case r.queue <- event:
	default:
		r.recordDrop(event)
	}
}

func (r *Router) recordDrop(event Event) {
	r.droppedTotal.Add(1)
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	now := time.Now().UnixNano()
	last := r.lastDropWarn.Load()
	if last == 0 || now >= last {
		if r.lastDropWarn.CompareAndSwap(last, now+interval.Nanoseconds()) {
			r.fallback.Printf("dropping event type=%s tick=%d", event.Type, event.Tick)
		}
	}
}

// Close drains the queue and shuts every sink down.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	r.cancel()
	select {
	case <-r.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	var firstErr error
	for _, sink := range r.sinks {
		if err := sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats reports delivery counters.
func (r *Router) Stats() RouterStats {
	return RouterStats{
		EventsTotal:  r.eventsTotal.Load(),
		DroppedTotal: r.droppedTotal.Load(),
	}
}

var _ Publisher = (*Router)(nil)
