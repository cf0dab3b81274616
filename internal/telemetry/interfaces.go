// Package telemetry defines the small logging interface gameplay packages
// depend on, so they never import a concrete logger.
package telemetry

import "log"

// Logger is the printf-style logger threaded through the simulation.
type Logger interface {
	Printf(format string, args ...any)
}

type stdLogger struct {
	logger *log.Logger
}

func (l stdLogger) Printf(format string, args ...any) {
	l.logger.Printf(format, args...)
}

func (l stdLogger) StandardLogger() *log.Logger { return l.logger }

// WrapLogger adapts a stdlib logger.
func WrapLogger(logger *log.Logger) Logger {
	if logger == nil {
		logger = log.Default()
	}
	return stdLogger{logger: logger}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// NopLogger discards everything; used in tests.
func NopLogger() Logger { return nopLogger{} }
