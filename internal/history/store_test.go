package history_test

import (
	"testing"

	"expense-forwarder/internal/history"
)

func TestKey(t *testing.T) {
	a := history.Key("Dinner receipt", "We owe John $15 each")
	b := history.Key("Dinner receipt", "We owe John $15 each")
	if a != b {
		t.Errorf("same email produced different keys: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}

	c := history.Key("Dinner receipt", "We owe John $16 each")
	if a == c {
		t.Error("different bodies produced the same key")
	}

	// Subject/body boundary matters: moving text across it changes the key.
	d := history.Key("Dinner", " receiptWe owe John $15 each")
	if a == d {
		t.Error("shifted subject/body boundary produced the same key")
	}
}
