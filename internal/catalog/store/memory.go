// Package store provides the fund catalog persistence implementations:
// in-memory for development and tests, Postgres for production, and a Redis
// read-through cache that wraps either.
package store

import (
	"context"
	"sort"
	"sync"

	"fondos/internal/catalog/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// InMemory keeps funds in a map guarded by a RWMutex. Reads vastly outnumber
// writes; writes only happen at seed time and on administrative deactivation.
type InMemory struct {
	mu    sync.RWMutex
	funds map[id.FundID]models.Fund
}

// NewInMemory returns an empty in-memory fund store.
func NewInMemory() *InMemory {
	return &InMemory{funds: make(map[id.FundID]models.Fund)}
}

// CreateIfNameAvailable inserts the fund unless another fund already has its
// name. Returns sentinel.ErrConflict on a name collision.
func (s *InMemory) CreateIfNameAvailable(_ context.Context, fund models.Fund) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.funds {
		if existing.Name == fund.Name {
			return sentinel.ErrConflict
		}
	}
	s.funds[fund.ID] = fund
	return nil
}

// FindByID returns the fund or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, fundID id.FundID) (models.Fund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fund, ok := s.funds[fundID]
	if !ok {
		return models.Fund{}, sentinel.ErrNotFound
	}
	return fund, nil
}

// List returns all funds sorted by name.
func (s *InMemory) List(_ context.Context) ([]models.Fund, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	funds := make([]models.Fund, 0, len(s.funds))
	for _, fund := range s.funds {
		funds = append(funds, fund)
	}
	sort.Slice(funds, func(i, j int) bool { return funds[i].Name < funds[j].Name })
	return funds, nil
}

// Count returns the number of funds in the catalog.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.funds), nil
}

// SetActive flips the administrative active flag.
func (s *InMemory) SetActive(_ context.Context, fundID id.FundID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fund, ok := s.funds[fundID]
	if !ok {
		return sentinel.ErrNotFound
	}
	fund.Active = active
	s.funds[fundID] = fund
	return nil
}
