package world

import (
	"time"

	"github.com/google/uuid"
)

// Intent is a player's most recently declared movement command for the
// next tick.
type Intent string

const (
	IntentNone      Intent = ""
	IntentMoveLeft  Intent = "MoveLeft"
	IntentMoveRight Intent = "MoveRight"
	IntentJump      Intent = "Jump"
	IntentStop      Intent = "Stop"
)

// ValidIntent reports whether s names one of the four accepted command
// types.
func ValidIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentMoveLeft, IntentMoveRight, IntentJump, IntentStop:
		return Intent(s), true
	default:
		return IntentNone, false
	}
}

// Player is one connected actor in the World. Coordinates are meters, +y
// is up.
type Player struct {
	ID          uuid.UUID
	Name        string
	X, Y        float64
	VX, VY      float64
	FacingRight bool
	Contact     Contact
	Color       string

	// PrevY is the pre-integration y from the previous tick; platform
	// top-landing needs it to distinguish "falling onto" from "already
	// resting on".
	PrevY float64

	// LastActivity drives idle eviction; touched on Join/Move/Chat.
	LastActivity time.Time
}

// NewPlayer constructs a freshly joined player at the spawn point, airborne
// by policy. Gravity then pulls it down over the following ticks until
// collision resolution grounds it (on the Ground plane, with the default
// geometry).
func NewPlayer(id uuid.UUID, name string, now time.Time) *Player {
	if name == "" {
		name = DefaultName(id)
	}
	return &Player{
		ID:           id,
		Name:         name,
		X:            0,
		Y:            0,
		FacingRight:  true,
		Contact:      Flying(),
		Color:        DeriveColor(id),
		PrevY:        0,
		LastActivity: now,
	}
}

// PlayerSnapshot is the wire shape of a Player in a state signal frame. Color is
// deliberately absent: the client re-derives it from the player ID with the
// same algorithm (DeriveColor) rather than receiving it over the wire.
type PlayerSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VelocityX   float64 `json:"velocity_x"`
	VelocityY   float64 `json:"velocity_y"`
	FacingRight bool    `json:"facing_right"`
	GroundState Contact `json:"ground_state"`
}

func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:          p.ID.String(),
		Name:        p.Name,
		X:           p.X,
		Y:           p.Y,
		VelocityX:   p.VX,
		VelocityY:   p.VY,
		FacingRight: p.FacingRight,
		GroundState: p.Contact,
	}
}
