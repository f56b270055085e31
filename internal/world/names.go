package world

import "github.com/google/uuid"

var namePrefixes = [...]string{
	"Shadow", "Swift", "Brave", "Mighty", "Silent", "Fierce", "Noble", "Wild",
	"Dark", "Bright", "Storm", "Fire", "Ice", "Thunder", "Light", "Night",
	"Steel", "Crystal", "Dragon", "Wolf", "Eagle", "Falcon", "Tiger", "Lion",
}

var nameSuffixes = [...]string{
	"Warrior", "Hunter", "Ranger", "Guardian", "Knight", "Rogue", "Mage", "Sage",
	"Blade", "Fang", "Claw", "Wing", "Storm", "Flame", "Frost", "Shade",
	"Strike", "Dash", "Leap", "Rush", "Bolt", "Flash", "Beam", "Ray",
}

// DefaultName derives a deterministic two-word display name from a player
// id, used whenever Init omits (or blanks) the client-supplied name.
func DefaultName(id uuid.UUID) string {
	prefix := namePrefixes[int(id[0])%len(namePrefixes)]
	suffix := nameSuffixes[int(id[1])%len(nameSuffixes)]
	return prefix + suffix
}
