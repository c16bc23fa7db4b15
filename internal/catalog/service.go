// Package catalog exposes fund reference data: lookup, listing, and
// administrative deactivation. Mutation of client money never happens here.
package catalog

import (
	"context"
	"errors"
	"log/slog"

	"fondos/internal/catalog/models"
	"fondos/internal/catalog/store"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/audit"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/requestcontext"
)

// Service translates store facts into domain errors and guards the
// administrative operations.
type Service struct {
	store  store.Store
	auditp audit.Publisher
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithAuditPublisher wires the audit sink for administrative changes.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.auditp = p }
}

// New constructs a catalog service.
func New(st store.Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{store: st, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Get returns the fund for the given ID.
func (s *Service) Get(ctx context.Context, fundID id.FundID) (models.Fund, error) {
	if fundID.IsNil() {
		return models.Fund{}, dErrors.New(dErrors.CodeInvalidInput, "fund_id is required")
	}
	fund, err := s.store.FindByID(ctx, fundID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Fund{}, dErrors.New(dErrors.CodeNotFound, "fund not found")
		}
		return models.Fund{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load fund")
	}
	return fund, nil
}

// List returns all funds sorted by name.
func (s *Service) List(ctx context.Context) ([]models.Fund, error) {
	funds, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list funds")
	}
	return funds, nil
}

// Deactivate flips a fund's active flag off. Existing memberships are
// unaffected; the fund just stops accepting new subscriptions.
func (s *Service) Deactivate(ctx context.Context, fundID id.FundID) error {
	if fundID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "fund_id is required")
	}
	if err := s.store.SetActive(ctx, fundID, false); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "fund not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate fund")
	}

	if s.auditp != nil {
		event := audit.Event{
			Action:    audit.ActionFundDeactivated,
			Timestamp: requestcontext.Now(ctx),
			ClientID:  requestcontext.ClientID(ctx),
			FundID:    fundID,
			RequestID: requestcontext.RequestID(ctx),
		}
		if err := s.auditp.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
		}
	}
	return nil
}
