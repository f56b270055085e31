// Package sim is the fixed-tick simulation task: the single long-running
// owner of the World. A ticker-driven Run method drains intake events once
// per tick and advances physics on a deadline schedule that does not drift
// with tick latency.
package sim

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sidescroller/internal/broadcast"
	"sidescroller/internal/intake"
	"sidescroller/internal/physics"
	"sidescroller/internal/telemetry"
	"sidescroller/internal/world"
)

const (
	tickOverrunMetricKey  = "sim_tick_overrun_total"
	idleEvictionMetricKey = "sim_idle_eviction_total"
)

// Config tunes the tick cadence and idle-eviction sweep.
type Config struct {
	TickHz            int
	IdleTimeout       time.Duration
	IdleCheckInterval time.Duration
}

// DefaultConfig is a 30s idle sweep with a 180s timeout, at a 60Hz tick
// rate.
func DefaultConfig() Config {
	return Config{
		TickHz:            60,
		IdleTimeout:       180 * time.Second,
		IdleCheckInterval: 30 * time.Second,
	}
}

// Loop is the fixed-tick simulation task. It is the sole mutator of the
// World it was constructed with.
type Loop struct {
	world    *world.World
	queue    *intake.Queue
	stateBus *broadcast.Bus[StateEvent]
	chatBus  *broadcast.Bus[world.ChatMessage]
	cfg      Config
	logger   telemetry.Logger
	metrics  telemetry.Metrics
}

// New constructs a Loop wiring the given World, intake Queue and broadcast
// buses together.
func New(w *world.World, q *intake.Queue, stateBus *broadcast.Bus[StateEvent], chatBus *broadcast.Bus[world.ChatMessage], cfg Config, logger telemetry.Logger, metrics telemetry.Metrics) *Loop {
	if logger == nil {
		logger = telemetry.NopLogger{}
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics{}
	}
	return &Loop{world: w, queue: q, stateBus: stateBus, chatBus: chatBus, cfg: cfg, logger: logger, metrics: metrics}
}

// World exposes the owned World for read-only access by the HTTP edge
// (e.g. to check player existence before enqueuing a command).
func (l *Loop) World() *world.World { return l.world }

// Queue exposes the intake queue for HTTP handlers to push into.
func (l *Loop) Queue() *intake.Queue { return l.queue }

// Run drives the fixed-timestep loop until ctx is cancelled. Ticks come
// from a time.Ticker, whose cadence does not drift with tick latency. The
// ticker delivers at most one tick that fired while an earlier tick was
// still running and drops the rest, so a long tick loses every further
// tick it overlapped and the loop never bursts to catch up. A tick whose
// fire time is more than one period past the expected deadline is logged
// and counted as an overrun, and the deadline is reset from it.
func (l *Loop) Run(ctx context.Context) {
	tickHz := l.cfg.TickHz
	if tickHz <= 0 {
		tickHz = 60
	}
	dt := 1.0 / float64(tickHz)
	period := time.Duration(float64(time.Second) * dt)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	idleInterval := l.cfg.IdleCheckInterval
	if idleInterval <= 0 {
		idleInterval = 30 * time.Second
	}
	idleTicker := time.NewTicker(idleInterval)
	defer idleTicker.Stop()

	deadline := time.Now().Add(period)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.After(deadline.Add(period)) {
				l.logger.Warnw("tick overrun, skipping to next deadline", "behind", now.Sub(deadline))
				l.metrics.Add(tickOverrunMetricKey, 1)
				deadline = now
			}
			deadline = deadline.Add(period)
			l.tick(dt)
		case <-idleTicker.C:
			l.evictIdle()
		}
	}
}

// tick recovers a panicking step once so it can be logged with context
// before the process dies; a panic here means a collision invariant was
// violated and the shared world state can no longer be trusted, so it is
// re-raised rather than swallowed.
func (l *Loop) tick(dt float64) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Errorw("simulation tick panicked, terminating", "recovered", r, "tick", l.world.Tick)
			panic(r)
		}
	}()

	events := l.queue.Drain()
	now := time.Now()

	intents := make(map[uuid.UUID]world.Intent, len(events))
	var joins []intake.Event
	var chats []intake.Event
	for _, evt := range events {
		switch evt.Type {
		case intake.EventJoin:
			joins = append(joins, evt)
		case intake.EventMove:
			intents[evt.PlayerID] = evt.Intent
		case intake.EventChat:
			chats = append(chats, evt)
		}
	}

	var newChat []world.ChatMessage
	l.world.WithLock(func(w *world.World) {
		for _, evt := range joins {
			w.Join(evt.PlayerID, evt.Name, now)
		}
		for pid := range intents {
			w.Touch(pid, now)
		}
		for _, evt := range chats {
			w.Touch(evt.PlayerID, now)
			if msg, ok := w.AppendChat(evt.PlayerID, evt.Text); ok {
				newChat = append(newChat, msg)
			}
		}
		physics.Step(w, intents, dt)
		w.Tick++
	})

	l.stateBus.Publish(StateEvent{Kind: StateEventSnapshot, Snapshot: l.world.Snapshot()})
	for _, msg := range newChat {
		l.chatBus.Publish(msg)
	}
}

func (l *Loop) evictIdle() {
	if l.cfg.IdleTimeout <= 0 {
		return
	}
	now := time.Now()
	type departure struct {
		id   uuid.UUID
		name string
	}
	var departed []departure

	l.world.WithLock(func(w *world.World) {
		for _, p := range w.SortedPlayers() {
			if now.Sub(p.LastActivity) > l.cfg.IdleTimeout {
				departed = append(departed, departure{id: p.ID, name: p.Name})
			}
		}
		for _, d := range departed {
			w.Remove(d.id)
		}
	})

	if len(departed) > 0 {
		l.metrics.Add(idleEvictionMetricKey, uint64(len(departed)))
	}
	for _, d := range departed {
		l.logger.Infow("evicted idle player", "player_id", d.id, "name", d.name)
		l.stateBus.Publish(StateEvent{
			Kind: StateEventPlayerLeft,
			PlayerLeft: PlayerLeftPayload{
				PlayerID:   d.id.String(),
				PlayerName: d.name,
			},
		})
	}
}
