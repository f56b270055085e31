// Package world holds the pure, in-memory state of the shared game world:
// players, frozen level geometry, and the bounded chat log. It owns no
// goroutines and performs no I/O; the only concurrency primitive it
// carries is the reader/writer guard protecting the state itself, per the
// single-writer, many-readers contract the simulation task and the HTTP
// edge agree on.
package world

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// World is the single canonical game state. The simulation task is the
// sole writer; it acquires the write guard for the whole of a tick. HTTP
// handlers only ever take the read guard, and only to build a Snapshot.
type World struct {
	mu sync.RWMutex

	Config  Config
	Players map[uuid.UUID]*Player
	Chat    []ChatMessage
	ChatSeq uint64
	Tick    uint64
}

// New constructs an empty World with the given frozen geometry.
func New(cfg Config) *World {
	return &World{
		Config:  cfg,
		Players: make(map[uuid.UUID]*Player),
	}
}

// WithLock runs fn with the write guard held. The simulation task is the
// only caller; fn may read and mutate Players, Chat, ChatSeq and Tick
// directly.
func (w *World) WithLock(fn func(w *World)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w)
}

// SortedPlayers returns every player ordered by id so that physics and
// snapshot serialization iterate deterministically. Callers must already
// hold a guard (read or write).
func (w *World) SortedPlayers() []*Player {
	players := make([]*Player, 0, len(w.Players))
	for _, p := range w.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return lessUUID(players[i].ID, players[j].ID)
	})
	return players
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Join creates the player if absent. Idempotent: an existing player keeps
// its position and contact state; only the name is refreshed when the
// caller supplies a non-empty one.
func (w *World) Join(id uuid.UUID, name string, now time.Time) *Player {
	if p, ok := w.Players[id]; ok {
		if name != "" {
			p.Name = name
		}
		p.LastActivity = now
		return p
	}
	p := NewPlayer(id, name, now)
	w.Players[id] = p
	return p
}

// Player looks up a player by id. Callers must already hold a guard.
func (w *World) Player(id uuid.UUID) (*Player, bool) {
	p, ok := w.Players[id]
	return p, ok
}

// Touch refreshes a player's last-activity timestamp, used whenever an
// intake event names a known player.
func (w *World) Touch(id uuid.UUID, now time.Time) {
	if p, ok := w.Players[id]; ok {
		p.LastActivity = now
	}
}

// Remove deletes a player, e.g. on idle eviction.
func (w *World) Remove(id uuid.UUID) {
	delete(w.Players, id)
}

// AppendChat validates and appends a chat message, assigning it the next
// sequence number, and evicts the oldest message if the buffer would
// exceed ChatMaxMessages. Returns the stored message and true on success.
func (w *World) AppendChat(id uuid.UUID, text string) (ChatMessage, bool) {
	p, ok := w.Players[id]
	if !ok {
		return ChatMessage{}, false
	}
	w.ChatSeq++
	msg := ChatMessage{
		PlayerID:    id,
		PlayerName:  p.Name,
		PlayerColor: p.Color,
		Text:        text,
		Seq:         w.ChatSeq,
	}
	w.Chat = append(w.Chat, msg)
	if len(w.Chat) > ChatMaxMessages {
		w.Chat = w.Chat[len(w.Chat)-ChatMaxMessages:]
	}
	return msg, true
}

// Snapshot is a copy of the full player set and the tick it was taken at,
// used both for the /events join-time replay frame and for the re-snapshot
// issued after subscriber lag. State frames serialize its Players list.
type Snapshot struct {
	Tick    uint64           `json:"tick"`
	Players []PlayerSnapshot `json:"players"`
}

// Snapshot takes the read guard and returns a serializable copy of the
// current player set. Safe to call concurrently with the simulation task.
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	players := w.SortedPlayers()
	out := Snapshot{Tick: w.Tick, Players: make([]PlayerSnapshot, len(players))}
	for i, p := range players {
		out.Players[i] = p.Snapshot()
	}
	return out
}

// ChatSnapshot takes the read guard and returns a copy of the current chat
// buffer, used for join-time replay on /events.
func (w *World) ChatSnapshot() []ChatMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]ChatMessage, len(w.Chat))
	copy(out, w.Chat)
	return out
}

// RLock/RUnlock let the HTTP edge read Players and Config under a single
// guard acquisition when it needs more than Snapshot provides (e.g.
// checking player existence before enqueuing a command).
func (w *World) RLock()   { w.mu.RLock() }
func (w *World) RUnlock() { w.mu.RUnlock() }
