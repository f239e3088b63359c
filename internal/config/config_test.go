package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BILL_PREFIX", "")
	t.Setenv("TAX_RATE_PERCENT", "")
	t.Setenv("LEDGER_PATH", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.BillPrefix != "MV" {
		t.Fatalf("bill prefix = %q", cfg.BillPrefix)
	}
	if cfg.TaxRatePercent != 5 {
		t.Fatalf("tax rate = %v", cfg.TaxRatePercent)
	}
	if cfg.LedgerPath != "Database/Invoice_Data.json" {
		t.Fatalf("ledger path = %q", cfg.LedgerPath)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %q", cfg.Address())
	}
}

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadRejectsGarbageNumerics(t *testing.T) {
	t.Setenv("TAX_RATE_PERCENT", "lots")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "-5")

	cfg := Load()
	if cfg.TaxRatePercent != 5 {
		t.Fatalf("tax rate fallback = %v", cfg.TaxRatePercent)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl fallback = %v", cfg.AccessTokenTTLMinutes)
	}
}
