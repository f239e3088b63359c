package billing

import (
	"tailorbill/backend/internal/domain"
)

// PatternPricer resolves a dress pattern's flat rate. A zero return means the
// pattern has no flat rate and the line item is costed from its parts.
type PatternPricer interface {
	PatternPrice(name string) float64
}

// Compose builds a line item from the operator's inputs plus the accessories
// pending for the line's key. It is a one-shot commit: the caller is expected
// to clear its itemized entry fields afterwards (pattern, piece and layer
// selections persist for the next line) and to drain the pending accessories.
//
// The returned bool reports fixed-price mode: the pattern has a flat catalog
// rate, the itemized cost inputs were ignored for totaling, and the caller
// should keep those inputs disabled while this pattern stays selected.
func Compose(prices PatternPricer, req domain.LineItemCreateRequest, accessories []domain.AccessoryEntry) (domain.LineItem, bool) {
	item := domain.LineItem{
		DressPattern:           req.DressPattern,
		PieceName:              req.PieceName,
		LayerName:              req.LayerName,
		LayerQuantity:          req.LayerQuantity,
		LayerPrice:             req.LayerPrice,
		MachineHours:           req.MachineHours,
		MachineCost:            req.MachineCost,
		EmbroideryHours:        req.EmbroideryHours,
		EmbroideryCost:         req.EmbroideryCost,
		EmbroideryMaterialCost: req.EmbroideryMaterialCost,
		DyingCharges:           req.DyingCharges,
		OtherCost:              req.OtherCost,
		FixedCost:              req.FixedCost,
		Accessories:            append([]domain.AccessoryEntry(nil), accessories...),
	}

	fixed := prices.PatternPrice(req.DressPattern)
	locked := fixed != 0

	var base float64
	if locked {
		item.FixedCost = domain.Number(fixed)
		base = fixed
	} else {
		// fixedCost still participates in the sum for uniformity with
		// fixed-price mode, but is forced to zero here.
		item.FixedCost = 0
		base = float64(item.MachineCost) +
			float64(item.EmbroideryCost) +
			float64(item.EmbroideryMaterialCost) +
			float64(item.DyingCharges) +
			float64(item.OtherCost) +
			float64(item.FixedCost)
	}

	item.TotalCost = domain.Number(base + accessorySum(item.Accessories))
	return item, locked
}

// accessorySum totals accessory rows. Each entry's Price is already the
// extended amount for the row (quantity folded in at quote time), so this is
// a plain sum of Price.
func accessorySum(entries []domain.AccessoryEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += float64(e.Price)
	}
	return sum
}
