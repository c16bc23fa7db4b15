// Package models defines the fund catalog reference data.
package models

import (
	"time"

	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
)

// Category classifies a fund.
type Category string

const (
	// CategoryFPV is a voluntary retirement fund (fondo de pensión voluntaria).
	CategoryFPV Category = "FPV"
	// CategoryFIC is a collective investment fund (fondo de inversión colectiva).
	CategoryFIC Category = "FIC"
)

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFPV, CategoryFIC:
		return Category(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "category must be FPV or FIC")
	}
}

// Fund is catalog reference data: immutable after creation except for
// administrative deactivation, never deleted in normal operation.
type Fund struct {
	ID            id.FundID
	Name          string
	MinimumAmount int64
	Category      Category
	Active        bool
	CreatedAt     time.Time
}
