// Package store provides client ledger persistence: in-memory for
// development and tests, Postgres for production.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fondos/internal/client/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// Store is the client ledger persistence contract shared by the
// implementations in this package.
type Store interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, clientID id.ClientID) (*models.Client, error)
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	Save(ctx context.Context, client *models.Client) error
	List(ctx context.Context) ([]*models.Client, error)
}

// InMemory keeps clients in a map guarded by a RWMutex. Stored values are
// deep copies so callers can never mutate the store through a returned
// pointer.
type InMemory struct {
	mu      sync.RWMutex
	clients map[id.ClientID]*models.Client
	byEmail map[string]id.ClientID
}

// NewInMemory returns an empty in-memory client store.
func NewInMemory() *InMemory {
	return &InMemory{
		clients: make(map[id.ClientID]*models.Client),
		byEmail: make(map[string]id.ClientID),
	}
}

// Create inserts a new client. Returns sentinel.ErrConflict if the email is
// already registered.
func (s *InMemory) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(client.Email)
	if _, exists := s.byEmail[email]; exists {
		return sentinel.ErrConflict
	}
	s.clients[client.ID] = client.Clone()
	s.byEmail[email] = client.ID
	return nil
}

// FindByID returns a copy of the client or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, clientID id.ClientID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return client.Clone(), nil
}

// FindByEmail looks a client up by case-insensitive email.
func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clientID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.clients[clientID].Clone(), nil
}

// Save upserts the client by identity, rewriting balance and memberships
// wholesale. The write semantics here are last-write-wins; see the engine's
// persistence contract.
func (s *InMemory) Save(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.clients[client.ID]; ok {
		delete(s.byEmail, strings.ToLower(existing.Email))
	}
	s.clients[client.ID] = client.Clone()
	s.byEmail[strings.ToLower(client.Email)] = client.ID
	return nil
}

// List returns all active clients ordered by name.
func (s *InMemory) List(_ context.Context) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		if c.Active {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
