package handler

import (
	"time"

	"fondos/internal/subscription"
)

// FundSummaryResponse is the fund slice of a result.
type FundSummaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	MinimumAmount int64  `json:"minimum_amount"`
}

// SubscribeResponse is the wire form of a committed subscription.
type SubscribeResponse struct {
	TransactionID   string              `json:"transaction_id"`
	Type            string              `json:"type"`
	Amount          int64               `json:"amount"`
	Timestamp       time.Time           `json:"timestamp"`
	ClientName      string              `json:"client_name"`
	BalanceBefore   int64               `json:"balance_before"`
	BalanceAfter    int64               `json:"balance_after"`
	MembershipCount int                 `json:"membership_count"`
	Fund            FundSummaryResponse `json:"fund"`
}

// CancelResponse is the wire form of a committed cancellation.
type CancelResponse struct {
	TransactionID   string              `json:"transaction_id"`
	Type            string              `json:"type"`
	AmountReturned  int64               `json:"amount_returned"`
	Timestamp       time.Time           `json:"timestamp"`
	ClientName      string              `json:"client_name"`
	BalanceBefore   int64               `json:"balance_before"`
	BalanceAfter    int64               `json:"balance_after"`
	MembershipCount int                 `json:"membership_count"`
	SubscribedAt    time.Time           `json:"subscribed_at"`
	Fund            FundSummaryResponse `json:"fund"`
}

func fromFundSummary(f subscription.FundSummary) FundSummaryResponse {
	return FundSummaryResponse{
		ID:            f.ID.String(),
		Name:          f.Name,
		Category:      string(f.Category),
		MinimumAmount: f.MinimumAmount,
	}
}

func fromSubscribeResult(r *subscription.SubscribeResult) SubscribeResponse {
	return SubscribeResponse{
		TransactionID:   r.TransactionID.String(),
		Type:            string(r.Type),
		Amount:          r.Amount,
		Timestamp:       r.Timestamp,
		ClientName:      r.ClientName,
		BalanceBefore:   r.BalanceBefore,
		BalanceAfter:    r.BalanceAfter,
		MembershipCount: r.MembershipCount,
		Fund:            fromFundSummary(r.Fund),
	}
}

func fromCancelResult(r *subscription.CancelResult) CancelResponse {
	return CancelResponse{
		TransactionID:   r.TransactionID.String(),
		Type:            string(r.Type),
		AmountReturned:  r.Amount,
		Timestamp:       r.Timestamp,
		ClientName:      r.ClientName,
		BalanceBefore:   r.BalanceBefore,
		BalanceAfter:    r.BalanceAfter,
		MembershipCount: r.MembershipCount,
		SubscribedAt:    r.SubscribedAt,
		Fund:            fromFundSummary(r.Fund),
	}
}
