// Package app is the composition root: it constructs the World, Command
// Intake queue and Broadcast Bus, wires them into the Simulation Task and
// the HTTP edge, and owns the process's net/http server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"sidescroller/internal/broadcast"
	"sidescroller/internal/httpapi"
	"sidescroller/internal/intake"
	"sidescroller/internal/sim"
	"sidescroller/internal/telemetry"
	"sidescroller/internal/world"
)

const (
	intakeCapacity      = 4096
	busLagCapacity      = 16
	shutdownGracePeriod = 5 * time.Second
)

// Config is the process-level configuration. Addr, GameConfigPath and
// TickHz fall back to environment variables (SERVER_ADDR, GAME_CONFIG_PATH,
// SIM_TICK_HZ) in Run when left at their zero value, mirroring the
// env-var-only configuration style used throughout this stack; a nil
// Logger or Metrics is replaced with the default implementation.
type Config struct {
	Addr           string
	GameConfigPath string
	TickHz         int
	Logger         telemetry.Logger
	Metrics        telemetry.Metrics
}

func (c Config) resolve() Config {
	if c.Addr == "" {
		c.Addr = envOr("SERVER_ADDR", ":8080")
	}
	if c.GameConfigPath == "" {
		c.GameConfigPath = os.Getenv("GAME_CONFIG_PATH")
	}
	if c.TickHz == 0 {
		if v, err := strconv.Atoi(os.Getenv("SIM_TICK_HZ")); err == nil && v > 0 {
			c.TickHz = v
		}
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Run builds the server and blocks until ctx is cancelled or the HTTP
// server fails. It always returns a non-nil error except on a clean
// shutdown triggered by ctx cancellation.
func Run(ctx context.Context, cfg Config) error {
	cfg = cfg.resolve()

	logger := cfg.Logger
	if logger == nil {
		zl, err := telemetry.NewZapLogger(telemetry.ZapConfig{
			LogFilePath: os.Getenv("LOG_FILE_PATH"),
			Debug:       os.Getenv("LOG_DEBUG") == "true",
		})
		if err != nil {
			return fmt.Errorf("construct logger: %w", err)
		}
		defer zl.Sync()
		logger = zl
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NewAtomicMetrics()
	}

	gameConfig, err := world.LoadConfig(cfg.GameConfigPath)
	if err != nil {
		return fmt.Errorf("load game config: %w", err)
	}

	w := world.New(gameConfig)
	queue := intake.NewQueue(intakeCapacity, metrics)
	stateBus := broadcast.New[sim.StateEvent](busLagCapacity, metrics)
	chatBus := broadcast.New[world.ChatMessage](busLagCapacity, metrics)

	simCfg := sim.DefaultConfig()
	simCfg.TickHz = gameConfig.Physics.TickHz
	if cfg.TickHz > 0 {
		simCfg.TickHz = cfg.TickHz
	}
	simCfg.IdleTimeout = time.Duration(gameConfig.IdleTimeoutSeconds) * time.Second

	loop := sim.New(w, queue, stateBus, chatBus, simCfg, logger, metrics)

	simCtx, cancelSim := context.WithCancel(ctx)
	defer cancelSim()
	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		loop.Run(simCtx)
	}()

	handler := httpapi.NewServer(w, queue, stateBus, chatBus, logger).Routes()
	httpServer := &http.Server{Addr: cfg.Addr, Handler: handler}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "addr", cfg.Addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		cancelSim()
		<-simDone
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("http server shutdown error", "error", err)
		}
		cancelSim()
		<-simDone
		return nil
	}
}
