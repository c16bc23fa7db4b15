// Package store provides transaction journal persistence: in-memory for
// development and tests, Postgres for production.
package store

import (
	"context"
	"sync"

	"fondos/internal/journal/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// ListFilter narrows a history query. Zero values mean no filtering.
type ListFilter struct {
	Type   models.Type
	Status models.Status
	Limit  int
	Offset int
}

// Page is one page of journal records plus the unfiltered-by-pagination
// total, for client-side paging.
type Page struct {
	Transactions []models.Transaction
	Total        int
}

// Store is the journal persistence contract shared by the implementations
// in this package.
type Store interface {
	Save(ctx context.Context, tx models.Transaction) error
	FindByExternalID(ctx context.Context, txID id.TransactionID) (models.Transaction, error)
	ListByClient(ctx context.Context, clientID id.ClientID, filter ListFilter) (Page, error)
	List(ctx context.Context, filter ListFilter) (Page, error)
	MarkNotified(ctx context.Context, txID id.TransactionID) error
}

// InMemory keeps journal records in insertion order behind a RWMutex.
type InMemory struct {
	mu      sync.RWMutex
	records []models.Transaction
	byID    map[id.TransactionID]int
}

// NewInMemory returns an empty in-memory journal store.
func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.TransactionID]int)}
}

// Save appends a record. Returns sentinel.ErrConflict if the external ID was
// already journaled.
func (s *InMemory) Save(_ context.Context, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[tx.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[tx.ID] = len(s.records)
	s.records = append(s.records, tx)
	return nil
}

// FindByExternalID returns the record with the given client-visible ID.
func (s *InMemory) FindByExternalID(_ context.Context, txID id.TransactionID) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[txID]
	if !ok {
		return models.Transaction{}, sentinel.ErrNotFound
	}
	return s.records[idx], nil
}

// ListByClient returns the client's records newest first, filtered and
// paginated.
func (s *InMemory) ListByClient(_ context.Context, clientID id.ClientID, filter ListFilter) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paginate(s.match(func(tx models.Transaction) bool {
		return tx.ClientID == clientID
	}, filter), filter), nil
}

// List returns all records newest first, filtered and paginated.
func (s *InMemory) List(_ context.Context, filter ListFilter) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paginate(s.match(func(models.Transaction) bool { return true }, filter), filter), nil
}

// MarkNotified flips the notification flag on a record.
func (s *InMemory) MarkNotified(_ context.Context, txID id.TransactionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[txID]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.records[idx].Metadata.NotificationSent = true
	return nil
}

// match collects matching records newest first.
func (s *InMemory) match(pred func(models.Transaction) bool, filter ListFilter) []models.Transaction {
	var out []models.Transaction
	for i := len(s.records) - 1; i >= 0; i-- {
		tx := s.records[i]
		if !pred(tx) {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func paginate(matched []models.Transaction, filter ListFilter) Page {
	total := len(matched)

	offset := filter.Offset
	if offset > total {
		offset = total
	}
	matched = matched[offset:]

	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return Page{Transactions: matched, Total: total}
}
