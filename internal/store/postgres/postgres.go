// Package postgres backs the billing ledger with PostgreSQL for deployments
// where the JSON file on local disk is not enough (multiple terminals, real
// backups). The ledger semantics are identical to the jsonfile store: bill
// numbers advance by exactly one per financial year and an invoice is
// appended in the same transaction that advances the sequence.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"tailorbill/backend/internal/domain"
	"tailorbill/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bill_sequences (
			year_label   TEXT PRIMARY KEY,
			last_bill_no INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			bill_no     TEXT PRIMARY KEY,
			year_label  TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			client_name TEXT NOT NULL DEFAULT '',
			bill_date   DATE,
			grand_total DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (year_label, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			bill_no  TEXT NOT NULL REFERENCES invoices(bill_no),
			position INTEGER NOT NULL,
			item     JSONB NOT NULL,
			PRIMARY KEY (bill_no, position)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			username   TEXT PRIMARY KEY,
			password   TEXT NOT NULL,
			role       TEXT NOT NULL,
			active     BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LastBillNumber(ctx context.Context, label string) (int, error) {
	var last int
	err := s.db.QueryRowContext(ctx, `
		SELECT last_bill_no FROM bill_sequences WHERE year_label = $1
	`, label).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last, nil
}

func (s *Store) FinalizeInvoice(ctx context.Context, invoice domain.Invoice, label string, number int) error {
	if invoice.BillNo == "" {
		return store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var last int
	err = tx.QueryRowContext(ctx, `
		SELECT last_bill_no FROM bill_sequences WHERE year_label = $1 FOR UPDATE
	`, label).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if number != last+1 {
		return fmt.Errorf("%w: bill number %d does not follow %d for year %s",
			store.ErrInvalidInput, number, last, label)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bill_sequences (year_label, last_bill_no)
		VALUES ($1, $2)
		ON CONFLICT (year_label) DO UPDATE SET last_bill_no = EXCLUDED.last_bill_no
	`, label, number)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (bill_no, year_label, seq, client_name, bill_date, grand_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, invoice.BillNo, label, number, invoice.ClientName, invoice.BillDate, float64(invoice.GrandTotal))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bill %s already recorded", store.ErrInvalidInput, invoice.BillNo)
		}
		return err
	}

	for i, item := range invoice.LineItems {
		encoded, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode line item %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items (bill_no, position, item)
			VALUES ($1, $2, $3)
		`, invoice.BillNo, i, encoded)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ListInvoices(ctx context.Context, limit int) ([]domain.BillRecord, error) {
	if limit < 1 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT bill_no FROM invoices
		ORDER BY created_at DESC, bill_no DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	billNos := make([]string, 0, limit)
	for rows.Next() {
		var billNo string
		if err := rows.Scan(&billNo); err != nil {
			return nil, err
		}
		billNos = append(billNos, billNo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]domain.BillRecord, 0, len(billNos))
	for _, billNo := range billNos {
		record, err := s.GetInvoice(ctx, billNo)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (s *Store) GetInvoice(ctx context.Context, billNo string) (*domain.BillRecord, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT true FROM invoices WHERE bill_no = $1
	`, billNo).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item FROM invoice_items
		WHERE bill_no = $1
		ORDER BY position
	`, billNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	record := domain.BillRecord{BillNo: billNo}
	for rows.Next() {
		var encoded []byte
		if err := rows.Scan(&encoded); err != nil {
			return nil, err
		}
		var item domain.LineItem
		if err := json.Unmarshal(encoded, &item); err != nil {
			return nil, fmt.Errorf("decode line item for %s: %w", billNo, err)
		}
		record.LineItems = append(record.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" {
		return store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if isUniqueViolation(err) {
		return store.ErrInvalidInput
	}
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 8)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
