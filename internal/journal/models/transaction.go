// Package models defines the append-only transaction journal entities.
package models

import (
	"time"

	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
)

// Type is the kind of money movement a record describes.
type Type string

const (
	TypeSubscription Type = "subscription"
	TypeCancellation Type = "cancellation"
)

// ParseType validates a transaction type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeSubscription, TypeCancellation:
		return Type(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "type must be subscription or cancellation")
	}
}

// Status records whether the attempt committed or was rejected.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ParseStatus validates a transaction status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCompleted, StatusFailed:
		return Status(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "status must be completed or failed")
	}
}

// Metadata is the denormalized context snapshot carried on each record.
// NotificationSent is the only field ever updated after the fact, and only
// best-effort.
type Metadata struct {
	BalanceBefore    int64  `json:"balance_before"`
	BalanceAfter     int64  `json:"balance_after"`
	ClientName       string `json:"client_name,omitempty"`
	FundName         string `json:"fund_name,omitempty"`
	FailureReason    string `json:"failure_reason,omitempty"`
	NotificationSent bool   `json:"notification_sent"`
}

// Transaction is one journal record. Records are immutable once written,
// except for the notification flag in Metadata.
type Transaction struct {
	ID        id.TransactionID
	ClientID  id.ClientID
	FundID    id.FundID
	Type      Type
	Status    Status
	Amount    int64
	Metadata  Metadata
	CreatedAt time.Time
}
