// Package sinks provides the built-in logging sinks.
package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"turf-war/server/logging"
)

// ConsoleSink renders events as single log lines.
type ConsoleSink struct {
	logger *log.Logger
}

// NewConsole builds a console sink over the writer.
func NewConsole(w io.Writer) *ConsoleSink {
	return &ConsoleSink{logger: log.New(w, "", log.LstdFlags)}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	s.logger.Printf("[%s] severity=%s tick=%d actor=%s%s",
		event.Type, event.Severity, event.Tick, formatActor(event.Actor), formatPayload(event.Payload))
	return nil
}

func (s *ConsoleSink) Close(context.Context) error { return nil }

func formatActor(ref logging.EntityRef) string {
	if ref.ID == "" {
		return "-"
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return " payload=" + string(data)
}

// MemorySink records events for assertions in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []logging.Event
}

// NewMemory builds an empty in-memory sink.
func NewMemory() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

func (s *MemorySink) Close(context.Context) error { return nil }

// Events copies the recorded events.
func (s *MemorySink) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]logging.Event, len(s.events))
	copy(out, s.events)
	return out
}
