// Package audit defines the audit event model and the publishers that ship
// events off the request path.
//
// Services emit events fire-and-forget after their own state is committed:
// a publisher failure is logged and never fails the business operation. The
// journal, not the audit stream, is the system of record for money movement.
package audit

import (
	"context"
	"time"

	id "fondos/pkg/domain"
)

// Action names an audited operation.
type Action string

const (
	ActionClientRegistered     Action = "client_registered"
	ActionClientLoggedIn       Action = "client_logged_in"
	ActionFundSubscribed       Action = "fund_subscribed"
	ActionFundCancelled        Action = "fund_cancelled"
	ActionSubscriptionRejected Action = "subscription_rejected"
	ActionFundDeactivated      Action = "fund_deactivated"
)

// Event captures one audited operation. Keep it transport-agnostic so
// publishers can fan out to Kafka, memory, or logs.
type Event struct {
	Action        Action            `json:"action"`
	Timestamp     time.Time         `json:"timestamp"`
	ClientID      id.ClientID       `json:"client_id"`
	FundID        id.FundID         `json:"fund_id,omitempty"`
	TransactionID id.TransactionID  `json:"transaction_id,omitempty"`
	Amount        int64             `json:"amount,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	RequestID     string            `json:"request_id,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Publisher ships audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
