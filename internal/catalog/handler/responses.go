package handler

import (
	"time"

	"fondos/internal/catalog/models"
)

// FundResponse is the wire form of one fund.
type FundResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MinimumAmount int64     `json:"minimum_amount"`
	Category      string    `json:"category"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// FundListResponse is the wire form of GET /funds.
type FundListResponse struct {
	Funds []FundResponse `json:"funds"`
	Count int            `json:"count"`
}

func fromFund(fund models.Fund) FundResponse {
	return FundResponse{
		ID:            fund.ID.String(),
		Name:          fund.Name,
		MinimumAmount: fund.MinimumAmount,
		Category:      string(fund.Category),
		Active:        fund.Active,
		CreatedAt:     fund.CreatedAt,
	}
}

func fundResponses(funds []models.Fund) []FundResponse {
	out := make([]FundResponse, len(funds))
	for i, fund := range funds {
		out[i] = fromFund(fund)
	}
	return out
}
