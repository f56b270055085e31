package sim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"sidescroller/internal/broadcast"
	"sidescroller/internal/intake"
	"sidescroller/internal/world"
)

type fakeMetrics struct {
	mu       sync.Mutex
	counters map[string]uint64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counters: map[string]uint64{}}
}

func (f *fakeMetrics) Add(key string, delta uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key] += delta
}

func (f *fakeMetrics) Store(key string, value uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key] = value
}

func (f *fakeMetrics) get(key string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[key]
}

func newTestLoop(t *testing.T, cfg Config) (*Loop, *broadcast.Subscriber[StateEvent], *broadcast.Subscriber[world.ChatMessage]) {
	t.Helper()
	w := world.New(world.DefaultConfig())
	q := intake.NewQueue(64, nil)
	stateBus := broadcast.New[StateEvent](16, nil)
	chatBus := broadcast.New[world.ChatMessage](16, nil)
	loop := New(w, q, stateBus, chatBus, cfg, nil, nil)
	return loop, stateBus.Subscribe(), chatBus.Subscribe()
}

func TestLoopAppliesJoinAndPublishesSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickHz = 200
	loop, stateSub, _ := newTestLoop(t, cfg)

	id := uuid.New()
	loop.Queue().Push(intake.Event{Type: intake.EventJoin, PlayerID: id, Name: "Ada"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	select {
	case evt := <-stateSub.C():
		if evt.Kind != StateEventSnapshot {
			t.Fatalf("expected a snapshot event, got %v", evt.Kind)
		}
		found := false
		for _, p := range evt.Snapshot.Players {
			if p.ID == id.String() {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected joined player in snapshot, got %+v", evt.Snapshot.Players)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a state frame")
	}
}

func TestLoopPublishesAcceptedChat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickHz = 200
	loop, _, chatSub := newTestLoop(t, cfg)

	id := uuid.New()
	loop.Queue().Push(intake.Event{Type: intake.EventJoin, PlayerID: id, Name: "Ada"})
	loop.Queue().Push(intake.Event{Type: intake.EventChat, PlayerID: id, Text: "hello"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	select {
	case msg := <-chatSub.C():
		if msg.Text != "hello" || msg.PlayerID != id {
			t.Fatalf("unexpected chat message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for chat frame")
	}
}

func TestLoopDropsChatForUnknownPlayer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickHz = 200
	loop, _, chatSub := newTestLoop(t, cfg)

	loop.Queue().Push(intake.Event{Type: intake.EventChat, PlayerID: uuid.New(), Text: "hello"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	select {
	case msg := <-chatSub.C():
		t.Fatalf("expected no chat frame for unknown player, got %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLoopEvictsIdlePlayers(t *testing.T) {
	cfg := Config{TickHz: 200, IdleTimeout: 10 * time.Millisecond, IdleCheckInterval: 15 * time.Millisecond}
	w := world.New(world.DefaultConfig())
	q := intake.NewQueue(64, nil)
	stateBus := broadcast.New[StateEvent](16, nil)
	chatBus := broadcast.New[world.ChatMessage](16, nil)
	metrics := newFakeMetrics()
	loop := New(w, q, stateBus, chatBus, cfg, nil, metrics)
	stateSub := stateBus.Subscribe()

	id := uuid.New()
	loop.Queue().Push(intake.Event{Type: intake.EventJoin, PlayerID: id, Name: "Ada"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-stateSub.C():
			if evt.Kind == StateEventPlayerLeft && evt.PlayerLeft.PlayerID == id.String() {
				if got := metrics.get(idleEvictionMetricKey); got != 1 {
					t.Fatalf("expected one idle eviction recorded, got %d", got)
				}
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for idle eviction of %s", id)
		}
	}
}
