package world

import (
	"testing"

	"github.com/google/uuid"
)

func TestDefaultNameIsDeterministic(t *testing.T) {
	id := uuidFromBytes(3, 7)
	first := DefaultName(id)
	second := DefaultName(id)
	if first != second {
		t.Fatalf("expected stable name, got %s then %s", first, second)
	}
}

func TestDefaultNameVariesWithIDBytes(t *testing.T) {
	a := DefaultName(uuidFromBytes(0, 0))
	b := DefaultName(uuidFromBytes(1, 1))
	if a == b {
		t.Fatalf("expected different id bytes to produce different names, both were %s", a)
	}
}

func uuidFromBytes(b0, b1 byte) uuid.UUID {
	var id uuid.UUID
	id[0], id[1] = b0, b1
	return id
}
