package domain

import (
	"encoding/json"
	"testing"
)

func TestParseNumberOrZero(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{`"12.5"`, 12.5},
		{"  7 ", 7},
		{"", 0},
		{"null", 0},
		{"-", 0},
		{"abc", 0},
		{`"three"`, 0},
		{"-40", -40},
	}
	for _, tc := range cases {
		if got := ParseNumberOrZero(tc.in); got != tc.want {
			t.Errorf("ParseNumberOrZero(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNumberDecodesSloppyJSON(t *testing.T) {
	var item LineItem
	payload := []byte(`{
		"dress_pattern": "Anarkali",
		"piece_name": "Front",
		"layer_name": "Silk",
		"total_cost": "1200.5",
		"layer_qnty": 2,
		"layer_price": null,
		"machine_hours": "x",
		"machine_cost": 750,
		"embroidery_hours": 0,
		"embroidery_cost": 0,
		"embroidery_material_cost": 0,
		"dying_charges": 0,
		"other_cost": 0,
		"fixed_cost": 0,
		"accessories": []
	}`)
	if err := json.Unmarshal(payload, &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if float64(item.TotalCost) != 1200.5 {
		t.Fatalf("quoted total = %v, want 1200.5", item.TotalCost)
	}
	if float64(item.LayerPrice) != 0 || float64(item.MachineHours) != 0 {
		t.Fatalf("null/garbage fields must coerce to 0: %v %v", item.LayerPrice, item.MachineHours)
	}
	if float64(item.MachineCost) != 750 {
		t.Fatalf("machine cost = %v", item.MachineCost)
	}
}

func TestAccessoryEntryWireShapeIsTriple(t *testing.T) {
	entry := AccessoryEntry{Name: "Buttons", Quantity: 12, Price: 96}
	encoded, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `["Buttons",12,96]` {
		t.Fatalf("wire shape = %s", encoded)
	}

	var decoded AccessoryEntry
	if err := json.Unmarshal([]byte(`["Zipper","1","40.5"]`), &decoded); err != nil {
		t.Fatalf("unmarshal quoted numbers: %v", err)
	}
	if decoded.Name != "Zipper" || float64(decoded.Quantity) != 1 || float64(decoded.Price) != 40.5 {
		t.Fatalf("decoded = %+v", decoded)
	}

	if err := json.Unmarshal([]byte(`["Lace",2]`), &decoded); err == nil {
		t.Fatalf("short triple must be rejected")
	}
	if err := json.Unmarshal([]byte(`{"name":"Lace"}`), &decoded); err == nil {
		t.Fatalf("object form must be rejected")
	}
}
