// Package app wires configuration, logging, the hub, and the HTTP server
// into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	server "turf-war/server"
	servernet "turf-war/server/internal/net"
	"turf-war/server/internal/telemetry"
	"turf-war/server/logging"
	loggingSinks "turf-war/server/logging/sinks"
)

// Config carries process-level overrides; zero values mean defaults.
type Config struct {
	Addr   string
	Logger telemetry.Logger
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	router := logging.NewRouter(logging.DefaultConfig(), logging.SystemClock{},
		loggingSinks.NewConsole(os.Stdout))
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			logger.Printf("failed to close logging router: %v", err)
		}
	}()

	tuning := tuningFromEnv(logger)

	hub, err := server.NewHub(tuning, router, logger)
	if err != nil {
		return fmt.Errorf("failed to construct hub: %w", err)
	}
	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
	}

	srv := &http.Server{Addr: addr, Handler: servernet.SetupRouter(hub, logger)}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Printf("server listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// tuningFromEnv applies the supported environment overrides on top of the
// defaults.
func tuningFromEnv(logger telemetry.Logger) server.Tuning {
	tuning := server.DefaultTuning()
	if raw := os.Getenv("TURF_PER_KILL"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			tuning.TurfPerKill = value
		} else {
			logger.Printf("invalid TURF_PER_KILL=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("SIM_WORKERS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			tuning.Sim.Workers = value
		} else {
			logger.Printf("invalid SIM_WORKERS=%q: %v", raw, err)
		}
	}
	if raw := os.Getenv("MAX_KICK_OFFENSES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			tuning.Combat.MaxKickOffenses = value
		} else {
			logger.Printf("invalid MAX_KICK_OFFENSES=%q: %v", raw, err)
		}
	}
	return tuning.Normalized()
}
