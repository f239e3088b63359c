package domain

import (
	"encoding/json"
	"fmt"
)

// AccessoryEntry is a named, priced add-on attached to one line item. Price is
// the already-extended amount for the row (quantity folded in when the entry
// was quoted), so totals sum Price directly. Entries are immutable and have no
// surrogate id; removal matches on field equality.
//
// The ledger file serializes entries as [name, quantity, price] triples, which
// is also how the legacy ledgers on disk look.
type AccessoryEntry struct {
	Name     string
	Quantity Number
	Price    Number
}

func (e AccessoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{e.Name, float64(e.Quantity), float64(e.Price)})
}

func (e *AccessoryEntry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("accessory entry must be an array: %w", err)
	}
	if len(parts) < 3 {
		return fmt.Errorf("accessory entry needs 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.Name); err != nil {
		// Legacy rows occasionally hold non-string names; fall back to the
		// raw token instead of rejecting the whole ledger.
		e.Name = string(parts[0])
	}
	e.Quantity = Number(ParseNumberOrZero(string(parts[1])))
	e.Price = Number(ParseNumberOrZero(string(parts[2])))
	return nil
}
