// Package client exposes the account holder's profile and ledger views:
// profile read/update, balance summary, and held funds. Money never moves
// through this package.
package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	catalogmodels "fondos/internal/catalog/models"
	"fondos/internal/client/models"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/requestcontext"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindByID(ctx context.Context, clientID id.ClientID) (*models.Client, error)
	Save(ctx context.Context, client *models.Client) error
}

// FundCatalog resolves fund reference data for the held-funds view.
type FundCatalog interface {
	Get(ctx context.Context, fundID id.FundID) (catalogmodels.Fund, error)
}

// Service reads and updates client profile data.
type Service struct {
	store   Store
	catalog FundCatalog
	logger  *slog.Logger
}

// New constructs a client service.
func New(store Store, catalog FundCatalog, logger *slog.Logger) *Service {
	return &Service{store: store, catalog: catalog, logger: logger}
}

// Profile returns the client record for the given ID.
func (s *Service) Profile(ctx context.Context, clientID id.ClientID) (*models.Client, error) {
	if clientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client_id is required")
	}
	client, err := s.store.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	return client, nil
}

// UpdateParams carries the mutable profile fields. Nil fields are left
// untouched.
type UpdateParams struct {
	Name       *string
	Phone      *string
	Preference *models.NotificationPreference
}

// UpdateProfile applies the given profile changes and returns the updated
// record. Balance and memberships are out of reach here.
func (s *Service) UpdateProfile(ctx context.Context, clientID id.ClientID, params UpdateParams) (*models.Client, error) {
	client, err := s.Profile(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "name must not be empty")
		}
		client.Name = name
	}
	if params.Phone != nil {
		client.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Preference != nil {
		client.Preference = *params.Preference
	}
	client.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Save(ctx, client); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save client")
	}

	s.logger.InfoContext(ctx, "client profile updated",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", clientID,
	)
	return client, nil
}

// BalanceSummary is the client's money at a glance. Patrimony is the
// conserved total: available balance plus everything invested.
type BalanceSummary struct {
	Balance       int64
	TotalInvested int64
	Patrimony     int64
}

// Balance returns the client's balance summary.
func (s *Service) Balance(ctx context.Context, clientID id.ClientID) (BalanceSummary, error) {
	client, err := s.Profile(ctx, clientID)
	if err != nil {
		return BalanceSummary{}, err
	}
	invested := client.TotalInvested()
	return BalanceSummary{
		Balance:       client.Balance,
		TotalInvested: invested,
		Patrimony:     client.Balance + invested,
	}, nil
}

// HeldFund is one membership joined with its fund reference data.
type HeldFund struct {
	Membership models.Membership
	Fund       catalogmodels.Fund
}

// Funds returns the client's memberships with fund details, in membership
// order. A fund missing from the catalog is skipped with a warning rather
// than failing the whole view.
func (s *Service) Funds(ctx context.Context, clientID id.ClientID) ([]HeldFund, error) {
	client, err := s.Profile(ctx, clientID)
	if err != nil {
		return nil, err
	}

	held := make([]HeldFund, 0, len(client.Memberships))
	for _, m := range client.Memberships {
		fund, err := s.catalog.Get(ctx, m.FundID)
		if err != nil {
			s.logger.WarnContext(ctx, "membership references unknown fund",
				"request_id", requestcontext.RequestID(ctx),
				"client_id", clientID,
				"fund_id", m.FundID,
				"error", err,
			)
			continue
		}
		held = append(held, HeldFund{Membership: m, Fund: fund})
	}
	return held, nil
}
