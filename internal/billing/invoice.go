package billing

import (
	"errors"

	"tailorbill/backend/internal/domain"
)

// ErrIndexOutOfRange reports a line-item index that is not in the draft.
var ErrIndexOutOfRange = errors.New("line item index out of range")

// Accumulator holds the ordered line items of the invoice in progress.
// Totals are recomputed from scratch on every read so they stay consistent
// through replace and remove, with no cache to invalidate.
//
// Not safe for concurrent use; the owning service serializes access.
type Accumulator struct {
	items []domain.LineItem
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) Append(item domain.LineItem) int {
	a.items = append(a.items, item)
	return len(a.items) - 1
}

// ReplaceAt swaps the item at index for the edited copy. The caller is
// responsible for having recomputed the replacement's TotalCost with
// RecomputeEditedTotal.
func (a *Accumulator) ReplaceAt(index int, item domain.LineItem) error {
	if index < 0 || index >= len(a.items) {
		return ErrIndexOutOfRange
	}
	a.items[index] = item
	return nil
}

func (a *Accumulator) RemoveAt(index int) error {
	if index < 0 || index >= len(a.items) {
		return ErrIndexOutOfRange
	}
	a.items = append(a.items[:index], a.items[index+1:]...)
	return nil
}

func (a *Accumulator) Len() int {
	return len(a.items)
}

// Items returns a copy of the draft's line items in commit order.
func (a *Accumulator) Items() []domain.LineItem {
	return append([]domain.LineItem(nil), a.items...)
}

// GrandTotal sums TotalCost over all items, fresh on every call.
func (a *Accumulator) GrandTotal() float64 {
	var total float64
	for _, item := range a.items {
		total += float64(item.TotalCost)
	}
	return total
}

func (a *Accumulator) TotalInWords() string {
	return NumberToWords(a.GrandTotal())
}

// TotalsByPattern groups line-item totals by dress pattern, keeping the order
// in which each pattern first appeared and numbering rows from 1. This is the
// summary table the printed invoice shows.
func (a *Accumulator) TotalsByPattern() []domain.PatternTotal {
	index := make(map[string]int)
	var rows []domain.PatternTotal
	for _, item := range a.items {
		if i, ok := index[item.DressPattern]; ok {
			rows[i].TotalCost += float64(item.TotalCost)
			continue
		}
		index[item.DressPattern] = len(rows)
		rows = append(rows, domain.PatternTotal{
			SNo:          len(rows) + 1,
			DressPattern: item.DressPattern,
			TotalCost:    float64(item.TotalCost),
		})
	}
	return rows
}

// Reset empties the draft after an invoice is finalized.
func (a *Accumulator) Reset() {
	a.items = nil
}

// RecomputeEditedTotal applies the edit-flow recompute rule to a modified
// line item: walk the numeric fields in their canonical record order starting
// at layer_price (offset 5 of the legacy record layout) and sum them, skipping
// the machine_hours and embroidery_hours positions (legacy offsets 6 and 8) so
// hour inputs are not double counted against their derived costs, then add the
// accessory row prices.
//
// Note the skip offsets leave layer_qnty out of the walk but keep layer_price
// in the sum. This reproduces the historical edit behavior exactly; issued
// bills in existing ledgers depend on it, so any change needs product
// confirmation first.
func RecomputeEditedTotal(item domain.LineItem) float64 {
	ordered := []float64{
		float64(item.LayerPrice),
		float64(item.MachineHours),
		float64(item.MachineCost),
		float64(item.EmbroideryHours),
		float64(item.EmbroideryCost),
		float64(item.EmbroideryMaterialCost),
		float64(item.DyingCharges),
		float64(item.OtherCost),
		float64(item.FixedCost),
	}

	var sum float64
	for i, v := range ordered {
		if i == 1 || i == 3 {
			continue
		}
		sum += v
	}
	return sum + accessorySum(item.Accessories)
}
