// Package jsonfile implements the billing ledger as a single JSON document on
// local disk, the format the business has used since the desktop days:
//
//	{
//	  "results": [ { "MV/24-25/1": [ <line item>, ... ] }, ... ],
//	  "24-25_last_bill_no": "1"
//	}
//
// The whole document is rewritten on every finalize, via a temp file and an
// atomic rename so a crash mid-write cannot corrupt the previous ledger.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tailorbill/backend/internal/billing"
	"tailorbill/backend/internal/domain"
	"tailorbill/backend/internal/store"
)

const sequenceKeySuffix = "_last_bill_no"

type Store struct {
	mu        sync.Mutex
	path      string
	usersPath string

	results  []domain.BillRecord
	sequence map[string]int
	users    map[string]domain.UserAccount
}

// New loads the ledger at path, or starts an empty one when the file does not
// exist. A file that exists but cannot be parsed is a fatal error: refusing to
// start beats silently forgetting which bill numbers were issued.
func New(path string) (*Store, error) {
	s := &Store{
		path:      path,
		usersPath: filepath.Join(filepath.Dir(path), "Invoice_Users.json"),
		sequence:  make(map[string]int),
		users:     make(map[string]domain.UserAccount),
	}
	if err := s.loadLedger(); err != nil {
		return nil, err
	}
	if err := s.loadUsers(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadLedger() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read ledger %s: %w", s.path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", store.ErrLedgerCorrupt, s.path, err)
	}

	if resultsRaw, ok := raw["results"]; ok {
		var entries []map[string][]domain.LineItem
		if err := json.Unmarshal(resultsRaw, &entries); err != nil {
			return fmt.Errorf("%w: %s: results: %v", store.ErrLedgerCorrupt, s.path, err)
		}
		for _, entry := range entries {
			for billNo, items := range entry {
				s.results = append(s.results, domain.BillRecord{BillNo: billNo, LineItems: items})
			}
		}
	}

	for key, value := range raw {
		if !strings.HasSuffix(key, sequenceKeySuffix) {
			continue
		}
		label := strings.TrimSuffix(key, sequenceKeySuffix)
		// Stored as an integer-as-string; older files occasionally hold a
		// bare number.
		s.sequence[label] = int(domain.ParseNumberOrZero(string(value)))
	}
	return nil
}

func (s *Store) LastBillNumber(_ context.Context, label string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sequence[label], nil
}

func (s *Store) FinalizeInvoice(_ context.Context, invoice domain.Invoice, label string, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if invoice.BillNo == "" {
		return store.ErrInvalidInput
	}
	if number != s.sequence[label]+1 {
		return fmt.Errorf("%w: bill number %d does not follow %d for year %s",
			store.ErrInvalidInput, number, s.sequence[label], label)
	}
	if got := billing.TrailingNumber(invoice.BillNo); got != number {
		return fmt.Errorf("%w: bill no %q does not carry sequence %d",
			store.ErrInvalidInput, invoice.BillNo, number)
	}

	results := append(s.results, domain.BillRecord{BillNo: invoice.BillNo, LineItems: invoice.LineItems})
	sequence := make(map[string]int, len(s.sequence)+1)
	for k, v := range s.sequence {
		sequence[k] = v
	}
	sequence[label] = number

	if err := s.writeLedger(results, sequence); err != nil {
		return err
	}

	s.results = results
	s.sequence = sequence
	return nil
}

func (s *Store) writeLedger(results []domain.BillRecord, sequence map[string]int) error {
	payload := make(map[string]any, len(sequence)+1)
	entries := make([]map[string][]domain.LineItem, 0, len(results))
	for _, record := range results {
		entries = append(entries, map[string][]domain.LineItem{record.BillNo: record.LineItems})
	}
	payload["results"] = entries
	for label, n := range sequence {
		payload[label+sequenceKeySuffix] = strconv.Itoa(n)
	}

	data, err := json.MarshalIndent(payload, "", "   ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return atomicWrite(s.path, data)
}

func (s *Store) ListInvoices(_ context.Context, limit int) ([]domain.BillRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 || limit > len(s.results) {
		limit = len(s.results)
	}
	records := make([]domain.BillRecord, 0, limit)
	for i := len(s.results) - 1; i >= 0 && len(records) < limit; i-- {
		records = append(records, s.results[i])
	}
	return records, nil
}

func (s *Store) GetInvoice(_ context.Context, billNo string) (*domain.BillRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Scan from the tail: recent bills are looked up far more often.
	for i := len(s.results) - 1; i >= 0; i-- {
		if s.results[i].BillNo == billNo {
			record := s.results[i]
			return &record, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Username == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.users[user.Username]; exists {
		return store.ErrInvalidInput
	}
	s.users[user.Username] = user
	return s.writeUsers()
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.users[username] = user
	return s.writeUsers()
}

type userRecord struct {
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) loadUsers() error {
	data, err := os.ReadFile(s.usersPath)
	if os.IsNotExist(err) {
		s.seedUsers()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read users %s: %w", s.usersPath, err)
	}

	var records map[string]userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse users %s: %w", s.usersPath, err)
	}
	for username, record := range records {
		s.users[username] = domain.UserAccount{
			Username:  username,
			Password:  record.Password,
			Role:      record.Role,
			Active:    record.Active,
			CreatedAt: record.CreatedAt,
		}
	}
	return nil
}

// seedUsers creates the initial operator accounts when no users file exists.
// Credentials come from SEED_ADMIN_PASSWORD and SEED_BILLING_PASSWORD; dev
// defaults are used with a warning when unset.
func (s *Store) seedUsers() {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	billingPwd := envOr("SEED_BILLING_PASSWORD", "billing123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_BILLING_PASSWORD") == "" {
		logrus.Warn("jsonfile store: using default dev credentials; set SEED_ADMIN_PASSWORD and SEED_BILLING_PASSWORD to override")
	}

	now := time.Now().UTC()
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"billing", billingPwd, domain.RoleBilling},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			logrus.WithError(err).Fatalf("jsonfile store: hash seed password for %s", u.username)
		}
		s.users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	if err := s.writeUsers(); err != nil {
		logrus.WithError(err).Warn("jsonfile store: persist seeded users")
	}
}

func (s *Store) writeUsers() error {
	records := make(map[string]userRecord, len(s.users))
	for username, user := range s.users {
		records[username] = userRecord{
			Password:  user.Password,
			Role:      user.Role,
			Active:    user.Active,
			CreatedAt: user.CreatedAt,
		}
	}
	data, err := json.MarshalIndent(records, "", "   ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return atomicWrite(s.usersPath, data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

func envOr(key string, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
