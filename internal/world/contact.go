package world

import "encoding/json"

// Side identifies which face of a wall a Sliding player is pressed against.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ContactKind distinguishes the three mutually exclusive ground-contact
// states a player can be in. The tagged-variant shape (kind plus a payload
// that only some kinds populate) replaces a free-form on-ground flag.
type ContactKind string

const (
	ContactGrounded ContactKind = "Grounded"
	ContactSliding  ContactKind = "Sliding"
	ContactFlying   ContactKind = "Flying"
)

// Contact is the ground-contact state machine's current state. When
// Grounded, PlatformID is nil to mean "the Ground plane" or names the
// platform stood on; when Sliding, it names the wall slid against. Side is
// only meaningful when Kind is ContactSliding.
type Contact struct {
	Kind       ContactKind
	PlatformID *string
	Side       Side
}

// Grounded builds a Grounded contact. platformID is nil for the Ground
// plane, or the id of the platform the player is standing on.
func Grounded(platformID *string) Contact {
	return Contact{Kind: ContactGrounded, PlatformID: platformID}
}

// Sliding builds a Sliding contact against the given side; platformID is
// the id of the wall providing the contact.
func Sliding(side Side, platformID *string) Contact {
	return Contact{Kind: ContactSliding, PlatformID: platformID, Side: side}
}

// Flying builds the airborne contact state.
func Flying() Contact {
	return Contact{Kind: ContactFlying}
}

func (c Contact) IsGrounded() bool { return c.Kind == ContactGrounded }
func (c Contact) IsSliding() bool  { return c.Kind == ContactSliding }
func (c Contact) IsFlying() bool   { return c.Kind == ContactFlying }

// MarshalJSON renders the wire shape pinned by the event-stream protocol:
// {"type":"Grounded","platform_id":str|null}, {"type":"Sliding","side":
// "left"|"right","platform_id":str|null}, or {"type":"Flying"}.
func (c Contact) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContactGrounded:
		return json.Marshal(struct {
			Type       string  `json:"type"`
			PlatformID *string `json:"platform_id"`
		}{Type: string(ContactGrounded), PlatformID: c.PlatformID})
	case ContactSliding:
		return json.Marshal(struct {
			Type       string  `json:"type"`
			Side       Side    `json:"side"`
			PlatformID *string `json:"platform_id"`
		}{Type: string(ContactSliding), Side: c.Side, PlatformID: c.PlatformID})
	default:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: string(ContactFlying)})
	}
}
