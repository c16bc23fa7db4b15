// Package journal exposes read access to the append-only transaction
// journal. Writes happen only through the subscription engine.
package journal

import (
	"context"
	"errors"
	"log/slog"

	"fondos/internal/client/models"
	journalmodels "fondos/internal/journal/models"
	"fondos/internal/journal/store"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/requestcontext"
)

// Store is the journal read surface the service needs.
type Store interface {
	FindByExternalID(ctx context.Context, txID id.TransactionID) (journalmodels.Transaction, error)
	ListByClient(ctx context.Context, clientID id.ClientID, filter store.ListFilter) (store.Page, error)
	List(ctx context.Context, filter store.ListFilter) (store.Page, error)
}

// Service serves journal queries, enforcing that non-admin callers only see
// their own records.
type Service struct {
	store  Store
	logger *slog.Logger
}

// New constructs a journal service.
func New(st Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Get returns the record with the given external ID. Callers other than the
// record's owner need the admin role.
func (s *Service) Get(ctx context.Context, txID id.TransactionID) (journalmodels.Transaction, error) {
	if txID.IsNil() {
		return journalmodels.Transaction{}, dErrors.New(dErrors.CodeInvalidInput, "transaction_id is required")
	}
	tx, err := s.store.FindByExternalID(ctx, txID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return journalmodels.Transaction{}, dErrors.New(dErrors.CodeNotFound, "transaction not found")
		}
		return journalmodels.Transaction{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}

	caller := requestcontext.ClientID(ctx)
	if tx.ClientID != caller && requestcontext.Role(ctx) != string(models.RoleAdmin) {
		// Report not_found rather than forbidden so callers cannot probe
		// which transaction ids exist.
		return journalmodels.Transaction{}, dErrors.New(dErrors.CodeNotFound, "transaction not found")
	}
	return tx, nil
}

// History returns the caller's own records, newest first.
func (s *Service) History(ctx context.Context, clientID id.ClientID, filter store.ListFilter) (store.Page, error) {
	if clientID.IsNil() {
		return store.Page{}, dErrors.New(dErrors.CodeInvalidInput, "client_id is required")
	}
	page, err := s.store.ListByClient(ctx, clientID, normalize(filter))
	if err != nil {
		return store.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return page, nil
}

// ListAll returns records across all clients. Admin only; the handler
// enforces the role before calling.
func (s *Service) ListAll(ctx context.Context, filter store.ListFilter) (store.Page, error) {
	page, err := s.store.List(ctx, normalize(filter))
	if err != nil {
		return store.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return page, nil
}

// defaultPageSize bounds unfiltered history queries.
const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func normalize(filter store.ListFilter) store.ListFilter {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
