package billing

import (
	"errors"
	"testing"

	"tailorbill/backend/internal/domain"
)

func draftWith(totals ...float64) *Accumulator {
	acc := NewAccumulator()
	for i, total := range totals {
		acc.Append(domain.LineItem{
			DressPattern: "Pattern",
			LayerName:    string(rune('A' + i)),
			TotalCost:    domain.Number(total),
		})
	}
	return acc
}

func TestAccumulatorTotalsStayFreshThroughEdits(t *testing.T) {
	acc := draftWith(100, 200, 300)
	if got := acc.GrandTotal(); got != 600 {
		t.Fatalf("grand total = %v, want 600", got)
	}

	if err := acc.RemoveAt(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := acc.GrandTotal(); got != 400 {
		t.Fatalf("after remove, grand total = %v, want 400", got)
	}

	edited := acc.Items()[0]
	edited.TotalCost = 150
	if err := acc.ReplaceAt(0, edited); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := acc.GrandTotal(); got != 450 {
		t.Fatalf("after replace, grand total = %v, want 450", got)
	}
}

func TestAccumulatorIndexErrors(t *testing.T) {
	acc := draftWith(100)
	if err := acc.RemoveAt(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("remove out of range: %v", err)
	}
	if err := acc.ReplaceAt(-1, domain.LineItem{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("replace out of range: %v", err)
	}
	if acc.Len() != 1 {
		t.Fatalf("failed ops must not change the draft")
	}
}

func TestTotalsByPatternFirstOccurrenceOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.Append(domain.LineItem{DressPattern: "Anarkali", TotalCost: 500})
	acc.Append(domain.LineItem{DressPattern: "Saree", TotalCost: 300})
	acc.Append(domain.LineItem{DressPattern: "Anarkali", TotalCost: 250})

	rows := acc.TotalsByPattern()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].DressPattern != "Anarkali" || rows[0].TotalCost != 750 || rows[0].SNo != 1 {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[1].DressPattern != "Saree" || rows[1].TotalCost != 300 || rows[1].SNo != 2 {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}

func TestAccumulatorResetClearsDraft(t *testing.T) {
	acc := draftWith(100, 200)
	acc.Reset()
	if acc.Len() != 0 || acc.GrandTotal() != 0 {
		t.Fatalf("reset left items behind")
	}
	if acc.TotalInWords() != "" {
		t.Fatalf("zero total must render as empty words, got %q", acc.TotalInWords())
	}
}

func TestRecomputeEditedTotalSkipsHourFields(t *testing.T) {
	item := domain.LineItem{
		DressPattern:           "Anarkali",
		LayerQuantity:          3,    // not part of the walk
		LayerPrice:             200,  // summed
		MachineHours:           8,    // skipped
		MachineCost:            1200, // summed
		EmbroideryHours:        4,    // skipped
		EmbroideryCost:         800,  // summed
		EmbroideryMaterialCost: 150,
		DyingCharges:           90,
		OtherCost:              60,
		FixedCost:              0,
		Accessories: []domain.AccessoryEntry{
			{Name: "Tassels", Quantity: 6, Price: 120},
		},
	}

	want := 200.0 + 1200 + 800 + 150 + 90 + 60 + 120
	if got := RecomputeEditedTotal(item); got != want {
		t.Fatalf("recomputed total = %v, want %v", got, want)
	}
}

func TestRecomputeEditedTotalIncludesFixedCost(t *testing.T) {
	item := domain.LineItem{DressPattern: "Lehenga", FixedCost: 2400}
	if got := RecomputeEditedTotal(item); got != 2400 {
		t.Fatalf("recomputed total = %v, want 2400", got)
	}
}
