package catalog

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheets := map[string][][]any{
		SheetStock: {
			{"S. No.", "Name of Item", "Selling Price of Material / Mtr"},
			{1, "Silk", 450.5},
			{2, "Cotton", "-"},
			{199, "Net", 120},
			{200, "Boundary Item", 10}, // serial 200 lands in both tables
			{201, "Buttons", 8},
			{202, "Zipper", ""},
		},
		SheetData: {
			{"Dress Patterns", "Rate/ Piece"},
			{"Lehenga", 2400},
			{"Anarkali", "-"},
			{"Saree", ""},
		},
		SheetClients: {
			{"Client Names", "State", "Email", "Phone Number"},
			{"Meena Boutique", "Tamil Nadu", "meena@example.com", "9876543210"},
		},
		SheetCompany: {
			{"Name", "Address_Line_1", "Address_Line_2", "GSTN"},
			{"MV Fashions", "12 Bazaar Street", "Chennai 600001", "33AAAAA0000A1Z5"},
		},
	}
	for sheet, rows := range sheets {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("new sheet %s: %v", sheet, err)
		}
		for i, row := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadWorkbookSplitsStockBySerial(t *testing.T) {
	wb, err := LoadWorkbook(writeTestWorkbook(t))
	if err != nil {
		t.Fatalf("load workbook: %v", err)
	}

	layerNames := make(map[string]bool)
	for _, row := range wb.Layers {
		layerNames[row.Name] = true
	}
	accessoryNames := make(map[string]bool)
	for _, row := range wb.Accessories {
		accessoryNames[row.Name] = true
	}

	for _, name := range []string{"Silk", "Cotton", "Net", "Boundary Item"} {
		if !layerNames[name] {
			t.Errorf("layer %q missing", name)
		}
	}
	for _, name := range []string{"Boundary Item", "Buttons", "Zipper"} {
		if !accessoryNames[name] {
			t.Errorf("accessory %q missing", name)
		}
	}
	if layerNames["Buttons"] {
		t.Errorf("serial 201 must not be a layer")
	}
	if accessoryNames["Silk"] {
		t.Errorf("serial 1 must not be an accessory")
	}
}

func TestLoadWorkbookFeedsCatalogRebuild(t *testing.T) {
	wb, err := LoadWorkbook(writeTestWorkbook(t))
	if err != nil {
		t.Fatalf("load workbook: %v", err)
	}
	c := Rebuild(wb.Layers, wb.Patterns, wb.Accessories)

	if got := c.LayerPrice("Silk"); got != 450.5 {
		t.Fatalf("Silk = %v, want 450.5", got)
	}
	if got := c.LayerPrice("Cotton"); got != 0 {
		t.Fatalf("dash-priced Cotton = %v, want 0", got)
	}
	if got := c.PatternPrice("Lehenga"); got != 2400 {
		t.Fatalf("Lehenga = %v, want 2400", got)
	}
	if got := c.PatternPrice("Anarkali"); got != 0 {
		t.Fatalf("dash-rated Anarkali must be itemized, got %v", got)
	}
}

func TestWorkbookClientLookup(t *testing.T) {
	wb, err := LoadWorkbook(writeTestWorkbook(t))
	if err != nil {
		t.Fatalf("load workbook: %v", err)
	}

	client := wb.ClientByName("Meena Boutique")
	if client.State != "Tamil Nadu" || client.Email != "meena@example.com" {
		t.Fatalf("client = %+v", client)
	}

	unknown := wb.ClientByName("Walk In")
	if unknown.Name != "Walk In" || unknown.State != "" {
		t.Fatalf("unknown client should carry just the name, got %+v", unknown)
	}

	if wb.Company.Name != "MV Fashions" || wb.Company.GSTN != "33AAAAA0000A1Z5" {
		t.Fatalf("company = %+v", wb.Company)
	}
}
