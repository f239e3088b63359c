package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tailorbill/backend/internal/domain"
	"tailorbill/backend/internal/store"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Invoice_Data.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, path
}

func sampleInvoice(billNo string) domain.Invoice {
	return domain.Invoice{
		BillNo:     billNo,
		BillDate:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		ClientName: "Meena Boutique",
		LineItems: []domain.LineItem{
			{
				DressPattern: "Anarkali",
				PieceName:    "Front",
				LayerName:    "Silk",
				TotalCost:    1200,
				MachineCost:  1200,
				Accessories: []domain.AccessoryEntry{
					{Name: "Buttons", Quantity: 4, Price: 32},
				},
			},
		},
		GrandTotal: 1200,
	}
}

func TestMissingLedgerFileStartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	last, err := s.LastBillNumber(context.Background(), "24-25")
	if err != nil || last != 0 {
		t.Fatalf("last = %d, err = %v", last, err)
	}
	records, err := s.ListInvoices(context.Background(), 10)
	if err != nil || len(records) != 0 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
}

func TestFinalizeRoundTripSurvivesReload(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if err := s.FinalizeInvoice(ctx, sampleInvoice("MV/24-25/1"), "24-25", 1); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	last, err := reloaded.LastBillNumber(ctx, "24-25")
	if err != nil || last != 1 {
		t.Fatalf("last after reload = %d, err = %v", last, err)
	}
	record, err := reloaded.GetInvoice(ctx, "MV/24-25/1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(record.LineItems) != 1 || record.LineItems[0].DressPattern != "Anarkali" {
		t.Fatalf("record = %+v", record)
	}
	if len(record.LineItems[0].Accessories) != 1 {
		t.Fatalf("accessories lost on reload: %+v", record.LineItems[0])
	}
}

func TestLedgerFileWireShape(t *testing.T) {
	s, path := newTestStore(t)
	if err := s.FinalizeInvoice(context.Background(), sampleInvoice("MV/24-25/1"), "24-25", 1); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("ledger is not a JSON object: %v", err)
	}

	var last string
	if err := json.Unmarshal(raw["24-25_last_bill_no"], &last); err != nil || last != "1" {
		t.Fatalf("sequence key must be the integer as a string, got %s (err %v)", raw["24-25_last_bill_no"], err)
	}

	var entries []map[string][]json.RawMessage
	if err := json.Unmarshal(raw["results"], &entries); err != nil {
		t.Fatalf("results shape: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("results = %d entries", len(entries))
	}
	if _, ok := entries[0]["MV/24-25/1"]; !ok {
		t.Fatalf("result entry not keyed by bill number: %v", entries[0])
	}
}

func TestFinalizeEnforcesMonotonicSequence(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.FinalizeInvoice(ctx, sampleInvoice("MV/24-25/1"), "24-25", 1); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	// Skipping a number is rejected.
	err := s.FinalizeInvoice(ctx, sampleInvoice("MV/24-25/3"), "24-25", 3)
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("gap accepted: %v", err)
	}
	// Replaying the same number is rejected.
	err = s.FinalizeInvoice(ctx, sampleInvoice("MV/24-25/1"), "24-25", 1)
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("replay accepted: %v", err)
	}
	// Sequences are per financial year.
	if err := s.FinalizeInvoice(ctx, sampleInvoice("MV/25-26/1"), "25-26", 1); err != nil {
		t.Fatalf("second year finalize: %v", err)
	}
}

func TestFinalizeRejectsMismatchedBillNo(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.FinalizeInvoice(context.Background(), sampleInvoice("MV/24-25/9"), "24-25", 1)
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("bill no carrying a different sequence was accepted: %v", err)
	}
}

func TestMalformedLedgerIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Invoice_Data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := New(path)
	if !errors.Is(err, store.ErrLedgerCorrupt) {
		t.Fatalf("expected ErrLedgerCorrupt, got %v", err)
	}
}

func TestListInvoicesNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		inv := sampleInvoice(billNoFor(i))
		if err := s.FinalizeInvoice(ctx, inv, "24-25", i); err != nil {
			t.Fatalf("finalize %d: %v", i, err)
		}
	}

	records, err := s.ListInvoices(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].BillNo != "MV/24-25/3" || records[1].BillNo != "MV/24-25/2" {
		t.Fatalf("records = %+v", records)
	}
}

func billNoFor(n int) string {
	return "MV/24-25/" + string(rune('0'+n))
}

func TestGetInvoiceNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetInvoice(context.Background(), "MV/24-25/99")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeededUsersPersistAcrossReload(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected seeded admin and billing accounts, got %d", len(users))
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	again, err := reloaded.ListUsers(ctx)
	if err != nil || len(again) != 2 {
		t.Fatalf("seeded users not persisted: %d (err %v)", len(again), err)
	}
	if again[0].Username != "admin" || again[0].Role != domain.RoleAdmin {
		t.Fatalf("users = %+v", again)
	}
}
