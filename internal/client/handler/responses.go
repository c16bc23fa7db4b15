package handler

import (
	"time"

	"fondos/internal/client"
	"fondos/internal/client/models"
)

// ProfileResponse is the wire form of the client profile.
type ProfileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Preference string    `json:"notification_preference"`
	Balance    int64     `json:"balance"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func fromClient(c *models.Client) ProfileResponse {
	return ProfileResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Preference: string(c.Preference),
		Balance:    c.Balance,
		Active:     c.Active,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// BalanceResponse is the wire form of GET /clients/me/balance.
type BalanceResponse struct {
	Balance       int64 `json:"balance"`
	TotalInvested int64 `json:"total_invested"`
	Patrimony     int64 `json:"patrimony"`
}

// HeldFundResponse is one membership joined with fund details.
type HeldFundResponse struct {
	FundID         string    `json:"fund_id"`
	FundName       string    `json:"fund_name"`
	Category       string    `json:"category"`
	InvestedAmount int64     `json:"invested_amount"`
	SubscribedAt   time.Time `json:"subscribed_at"`
}

// HeldFundListResponse is the wire form of GET /clients/me/funds.
type HeldFundListResponse struct {
	Funds []HeldFundResponse `json:"funds"`
	Count int                `json:"count"`
}

func heldFundResponses(held []client.HeldFund) []HeldFundResponse {
	out := make([]HeldFundResponse, len(held))
	for i, h := range held {
		out[i] = HeldFundResponse{
			FundID:         h.Fund.ID.String(),
			FundName:       h.Fund.Name,
			Category:       string(h.Fund.Category),
			InvestedAmount: h.Membership.InvestedAmount,
			SubscribedAt:   h.Membership.SubscribedAt,
		}
	}
	return out
}
