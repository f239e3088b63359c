// Package memory provides an ephemeral Repository used by tests and local
// development. Nothing is persisted: every process starts with an empty
// ledger and the two seeded operator accounts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tailorbill/backend/internal/domain"
	"tailorbill/backend/internal/store"
)

type Store struct {
	mu       sync.Mutex
	results  []domain.BillRecord
	sequence map[string]int
	users    map[string]domain.UserAccount
}

func New() *Store {
	s := &Store{
		sequence: make(map[string]int),
		users:    make(map[string]domain.UserAccount),
	}
	s.seedUsers()
	return s
}

func (s *Store) seedUsers() {
	now := time.Now().UTC()
	for _, u := range []struct {
		username string
		role     string
	}{
		{"admin", domain.RoleAdmin},
		{"billing", domain.RoleBilling},
	} {
		hash, _ := bcrypt.GenerateFromPassword([]byte(u.username+"123"), bcrypt.MinCost)
		s.users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
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
	s.results = append(s.results, domain.BillRecord{BillNo: invoice.BillNo, LineItems: invoice.LineItems})
	s.sequence[label] = number
	return nil
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
	return nil
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
	return nil
}
