// Package subscription implements the balance-transfer engine: subscribing a
// client to a fund and cancelling an existing subscription, with the paired
// client/journal persistence and compensating rollback that keep money
// conserved.
package subscription

import (
	"context"

	catalogmodels "fondos/internal/catalog/models"
	clientmodels "fondos/internal/client/models"
	journalmodels "fondos/internal/journal/models"
	id "fondos/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// FundStore resolves fund reference data. Missing funds are reported with
// sentinel.ErrNotFound, never a panic or nil fund.
type FundStore interface {
	FindByID(ctx context.Context, fundID id.FundID) (catalogmodels.Fund, error)
}

// ClientStore loads and persists the client ledger. Save is an upsert that
// rewrites balance and memberships wholesale; its failure is distinguishable
// from not-found.
type ClientStore interface {
	FindByID(ctx context.Context, clientID id.ClientID) (*clientmodels.Client, error)
	Save(ctx context.Context, client *clientmodels.Client) error
}

// TransactionStore appends journal records.
type TransactionStore interface {
	Save(ctx context.Context, tx journalmodels.Transaction) error
}

// Notifier delivers post-commit notices. Implementations are best-effort and
// must never fail the operation; the engine calls them fire-and-forget.
type Notifier interface {
	NotifySubscription(ctx context.Context, client *clientmodels.Client, fund catalogmodels.Fund, tx journalmodels.Transaction)
	NotifyCancellation(ctx context.Context, client *clientmodels.Client, fund catalogmodels.Fund, tx journalmodels.Transaction)
}
