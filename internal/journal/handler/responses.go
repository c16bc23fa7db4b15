package handler

import (
	"time"

	"fondos/internal/journal/models"
)

// MetadataResponse is the wire form of a record's context snapshot.
type MetadataResponse struct {
	BalanceBefore    int64  `json:"balance_before"`
	BalanceAfter     int64  `json:"balance_after"`
	ClientName       string `json:"client_name,omitempty"`
	FundName         string `json:"fund_name,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
	NotificationSent bool   `json:"notification_sent"`
}

// TransactionResponse is the wire form of one journal record.
type TransactionResponse struct {
	ID        string           `json:"id"`
	ClientID  string           `json:"client_id"`
	FundID    string           `json:"fund_id"`
	Type      string           `json:"type"`
	Status    string           `json:"status"`
	Amount    int64            `json:"amount"`
	Metadata  MetadataResponse `json:"metadata"`
	CreatedAt time.Time        `json:"created_at"`
}

// TransactionListResponse is one page of journal records.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

func fromTransaction(tx models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:       tx.ID.String(),
		ClientID: tx.ClientID.String(),
		FundID:   tx.FundID.String(),
		Type:     string(tx.Type),
		Status:   string(tx.Status),
		Amount:   tx.Amount,
		Metadata: MetadataResponse{
			BalanceBefore:    tx.Metadata.BalanceBefore,
			BalanceAfter:     tx.Metadata.BalanceAfter,
			ClientName:       tx.Metadata.ClientName,
			FundName:         tx.Metadata.FundName,
			FailureReason:    tx.Metadata.FailureReason,
			NotificationSent: tx.Metadata.NotificationSent,
		},
		CreatedAt: tx.CreatedAt,
	}
}

func transactionResponses(txs []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = fromTransaction(tx)
	}
	return out
}
