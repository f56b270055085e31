package world

import "github.com/google/uuid"

// ChatMaxMessages bounds the retained chat history; the oldest message is
// evicted once the buffer would exceed this length.
const ChatMaxMessages = 100

// ChatTextMaxBytes is the maximum trimmed UTF-8 byte length of a chat
// message's text.
const ChatTextMaxBytes = 256

// ChatMessage is a single accepted chat submission, tagged with the
// sender's display name/color at the time it was sent so the SSE edge
// never has to re-resolve a possibly-departed player.
type ChatMessage struct {
	PlayerID    uuid.UUID `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	PlayerColor string    `json:"player_color"`
	Text        string    `json:"text"`
	Seq         uint64    `json:"seq"`
}
