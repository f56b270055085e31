package httpapi

import "strings"

// trimToValidChat trims surrounding whitespace, the only normalization the
// chat validation rule requires.
func trimToValidChat(s string) string {
	return strings.TrimSpace(s)
}
