package store

import (
	"context"
	"errors"

	"tailorbill/backend/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers malformed or out-of-sequence writes, e.g. a
	// finalize whose bill number does not advance the year's sequence.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLedgerCorrupt means the billing ledger exists but cannot be parsed.
	// This is fatal at startup: silently discarding billing history risks
	// reissuing bill numbers.
	ErrLedgerCorrupt = errors.New("billing ledger is corrupt")
)

// Repository is the durable billing ledger: issued invoices plus the
// per-financial-year bill number sequence, and the operator accounts.
type Repository interface {
	// LastBillNumber returns the last issued number for a financial-year
	// label, 0 if the year has no bills yet.
	LastBillNumber(ctx context.Context, label string) (int, error)

	// FinalizeInvoice durably records the invoice and advances the label's
	// sequence to number. number must be exactly one past the label's last
	// issued number; anything else is ErrInvalidInput. The append and the
	// sequence advance land together or not at all.
	FinalizeInvoice(ctx context.Context, invoice domain.Invoice, label string, number int) error

	// ListInvoices returns up to limit issued bills, most recent first.
	ListInvoices(ctx context.Context, limit int) ([]domain.BillRecord, error)

	// GetInvoice looks a bill up by its display number.
	GetInvoice(ctx context.Context, billNo string) (*domain.BillRecord, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
