package sim

import "sidescroller/internal/world"

// StateEventKind tags which payload a StateEvent carries on the state
// broadcast bus. The source's GameUpdate enum (StateUpdate | PlayerLeft)
// is the model: most ticks publish a Snapshot, and an idle eviction
// publishes a PlayerLeft alongside the next one so clients can drop the
// sprite immediately instead of waiting for it to go stale.
type StateEventKind string

const (
	StateEventSnapshot   StateEventKind = "snapshot"
	StateEventPlayerLeft StateEventKind = "playerLeft"
)

// PlayerLeftPayload names the player an idle sweep evicted.
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// StateEvent is one value published on the state bus.
type StateEvent struct {
	Kind       StateEventKind
	Snapshot   world.Snapshot
	PlayerLeft PlayerLeftPayload
}
