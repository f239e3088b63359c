package billing

import (
	"testing"

	"tailorbill/backend/internal/domain"
)

func TestAccessoryLedgerKeysAreIsolated(t *testing.T) {
	ledger := NewAccessoryLedger()
	front := domain.LineKey{DressPattern: "Anarkali", PieceName: "Front", LayerName: "Silk"}
	back := domain.LineKey{DressPattern: "Anarkali", PieceName: "Back", LayerName: "Silk"}

	ledger.Add(front, domain.AccessoryEntry{Name: "Buttons", Quantity: 4, Price: 32})
	ledger.Add(back, domain.AccessoryEntry{Name: "Zipper", Quantity: 1, Price: 40})

	if got := ledger.EntriesFor(front); len(got) != 1 || got[0].Name != "Buttons" {
		t.Fatalf("front entries = %+v", got)
	}
	if got := ledger.EntriesFor(back); len(got) != 1 || got[0].Name != "Zipper" {
		t.Fatalf("back entries = %+v", got)
	}
}

func TestAccessoryLedgerRemoveFirstMatchOnly(t *testing.T) {
	ledger := NewAccessoryLedger()
	key := domain.LineKey{DressPattern: "Saree"}
	entry := domain.AccessoryEntry{Name: "Lace", Quantity: 2, Price: 60}

	ledger.Add(key, entry)
	ledger.Add(key, entry)
	ledger.Remove(key, entry)

	if got := ledger.EntriesFor(key); len(got) != 1 {
		t.Fatalf("expected one duplicate left, got %d", len(got))
	}

	// Removing something that is not there is a no-op.
	ledger.Remove(key, domain.AccessoryEntry{Name: "Absent", Quantity: 1, Price: 5})
	if got := ledger.EntriesFor(key); len(got) != 1 {
		t.Fatalf("no-op remove changed the ledger: %d entries", len(got))
	}
}

func TestAccessoryLedgerDrainEmptiesKey(t *testing.T) {
	ledger := NewAccessoryLedger()
	key := domain.LineKey{DressPattern: "Lehenga", LayerName: "Net"}

	ledger.Add(key, domain.AccessoryEntry{Name: "Mirror Work", Quantity: 1, Price: 250})
	drained := ledger.Drain(key)
	if len(drained) != 1 {
		t.Fatalf("drained %d entries, want 1", len(drained))
	}
	if got := ledger.EntriesFor(key); len(got) != 0 {
		t.Fatalf("key not cleared after drain: %d entries", len(got))
	}
	if drained = ledger.Drain(key); len(drained) != 0 {
		t.Fatalf("second drain not empty: %d entries", len(drained))
	}
}
