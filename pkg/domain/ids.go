// Package domain holds the typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so a ClientID can never be passed
// where a FundID is expected. Parsing enforces the invariant that IDs are
// valid, non-nil UUIDs at trust boundaries (HTTP, storage rows).
package domain

import (
	"github.com/google/uuid"

	dErrors "fondos/pkg/domain-errors"
)

type (
	// ClientID identifies an account holder.
	ClientID uuid.UUID

	// FundID identifies an investment fund in the catalog.
	FundID uuid.UUID

	// TransactionID is the external identifier of a journal record. It is
	// assigned by the application, not by storage, so it stays stable across
	// persistence backends.
	TransactionID uuid.UUID
)

// NewClientID returns a fresh random client ID.
func NewClientID() ClientID { return ClientID(uuid.New()) }

// NewFundID returns a fresh random fund ID.
func NewFundID() FundID { return FundID(uuid.New()) }

// NewTransactionID returns a fresh random transaction ID.
func NewTransactionID() TransactionID { return TransactionID(uuid.New()) }

func (id ClientID) String() string      { return uuid.UUID(id).String() }
func (id FundID) String() string        { return uuid.UUID(id).String() }
func (id TransactionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ClientID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id FundID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id TransactionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseClientID parses a client ID from its string form.
func ParseClientID(s string) (ClientID, error) {
	u, err := parseUUID(s, "client_id")
	return ClientID(u), err
}

// ParseFundID parses a fund ID from its string form.
func ParseFundID(s string) (FundID, error) {
	u, err := parseUUID(s, "fund_id")
	return FundID(u), err
}

// ParseTransactionID parses a transaction ID from its string form.
func ParseTransactionID(s string) (TransactionID, error) {
	u, err := parseUUID(s, "transaction_id")
	return TransactionID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+" is not a valid identifier")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil identifier")
	}
	return u, nil
}
