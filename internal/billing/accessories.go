package billing

import (
	"tailorbill/backend/internal/domain"
)

// AccessoryLedger holds accessory rows the operator has attached to a line
// that has not been committed yet, keyed by (pattern, piece, layer). Commit
// drains the key; the ledger never holds accessories for committed lines.
//
// Not safe for concurrent use; the owning service serializes access.
type AccessoryLedger struct {
	entries map[domain.LineKey][]domain.AccessoryEntry
}

func NewAccessoryLedger() *AccessoryLedger {
	return &AccessoryLedger{entries: make(map[domain.LineKey][]domain.AccessoryEntry)}
}

// Add appends an entry under key, creating the key's list if needed.
func (l *AccessoryLedger) Add(key domain.LineKey, entry domain.AccessoryEntry) {
	l.entries[key] = append(l.entries[key], entry)
}

// Remove deletes the first entry under key equal to entry. Removing an entry
// that is not there is a no-op, not an error.
func (l *AccessoryLedger) Remove(key domain.LineKey, entry domain.AccessoryEntry) {
	list := l.entries[key]
	for i, e := range list {
		if e == entry {
			l.entries[key] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// EntriesFor returns a copy of the pending entries under key, empty if none.
func (l *AccessoryLedger) EntriesFor(key domain.LineKey) []domain.AccessoryEntry {
	return append([]domain.AccessoryEntry(nil), l.entries[key]...)
}

// Drain returns the pending entries under key and clears them. Called when
// the line item for key is committed to the invoice.
func (l *AccessoryLedger) Drain(key domain.LineKey) []domain.AccessoryEntry {
	list := l.entries[key]
	delete(l.entries, key)
	return list
}

// Clear empties the whole ledger, used when the draft invoice is reset.
func (l *AccessoryLedger) Clear() {
	l.entries = make(map[domain.LineKey][]domain.AccessoryEntry)
}
