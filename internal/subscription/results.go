package subscription

import (
	"time"

	catalogmodels "fondos/internal/catalog/models"
	journalmodels "fondos/internal/journal/models"
	id "fondos/pkg/domain"
)

// FundSummary is the fund slice of a result, enough to render a confirmation
// without a second read.
type FundSummary struct {
	ID            id.FundID
	Name          string
	Category      catalogmodels.Category
	MinimumAmount int64
}

// SubscribeResult reports a committed subscription.
type SubscribeResult struct {
	TransactionID   id.TransactionID
	Type            journalmodels.Type
	Amount          int64
	Timestamp       time.Time
	ClientName      string
	BalanceBefore   int64
	BalanceAfter    int64
	MembershipCount int
	Fund            FundSummary
}

// CancelResult reports a committed cancellation. Amount is the money
// returned to the balance; SubscribedAt is when the cancelled membership was
// opened.
type CancelResult struct {
	TransactionID   id.TransactionID
	Type            journalmodels.Type
	Amount          int64
	Timestamp       time.Time
	ClientName      string
	BalanceBefore   int64
	BalanceAfter    int64
	MembershipCount int
	SubscribedAt    time.Time
	Fund            FundSummary
}
