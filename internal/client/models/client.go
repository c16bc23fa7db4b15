// Package models defines the client ledger entities: the account holder,
// its balance, and its fund memberships.
package models

import (
	"time"

	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
)

// NotificationPreference selects the delivery channel for notices.
type NotificationPreference string

const (
	NotifyByEmail NotificationPreference = "email"
	NotifyBySMS   NotificationPreference = "sms"
)

// ParseNotificationPreference validates a preference string.
func ParseNotificationPreference(s string) (NotificationPreference, error) {
	switch NotificationPreference(s) {
	case NotifyByEmail, NotifyBySMS:
		return NotificationPreference(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "notification preference must be email or sms")
	}
}

// Role is the caller's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Membership is a client's active position in one fund. It snapshots the
// amount invested at subscription time and is never mutated in place:
// created on subscribe, removed on cancel.
type Membership struct {
	FundID         id.FundID
	InvestedAmount int64
	SubscribedAt   time.Time
}

// Client is the account holder. Balance and Memberships are mutated only by
// the subscription engine; profile fields by the profile operations.
//
// Invariants the engine upholds:
//   - Balance >= 0
//   - at most one membership per fund
//   - Balance + sum(Memberships[].InvestedAmount) is conserved across
//     subscribe/cancel pairs
type Client struct {
	ID           id.ClientID
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Balance      int64
	Preference   NotificationPreference
	Memberships  []Membership
	Active       bool
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MembershipIndex returns the position of the membership for fundID, or -1.
func (c *Client) MembershipIndex(fundID id.FundID) int {
	for i, m := range c.Memberships {
		if m.FundID == fundID {
			return i
		}
	}
	return -1
}

// HasMembership reports whether the client holds a position in fundID.
func (c *Client) HasMembership(fundID id.FundID) bool {
	return c.MembershipIndex(fundID) >= 0
}

// TotalInvested sums the invested amounts across all memberships.
func (c *Client) TotalInvested() int64 {
	var total int64
	for _, m := range c.Memberships {
		total += m.InvestedAmount
	}
	return total
}

// Clone returns a deep copy. The engine mutates a copy so a failed persist
// never leaves a half-mutated client visible to anyone holding the original.
func (c *Client) Clone() *Client {
	dup := *c
	dup.Memberships = make([]Membership, len(c.Memberships))
	copy(dup.Memberships, c.Memberships)
	return &dup
}
