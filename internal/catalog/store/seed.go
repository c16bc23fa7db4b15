package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fondos/internal/catalog/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// seedFund is one entry of the starter catalog.
type seedFund struct {
	name     string
	minimum  int64
	category models.Category
}

// starterFunds is the reference catalog the product launched with.
var starterFunds = []seedFund{
	{"FPV_BTG_PACTUAL_RECAUDADORA", 75_000, models.CategoryFPV},
	{"FPV_BTG_PACTUAL_ECOPETROL", 125_000, models.CategoryFPV},
	{"DEUDAPRIVADA", 50_000, models.CategoryFIC},
	{"FDO-ACCIONES", 250_000, models.CategoryFIC},
	{"FPV_BTG_PACTUAL_DINAMICA", 100_000, models.CategoryFPV},
}

// Seed inserts the starter funds if the catalog is empty. It runs as an
// explicit startup step, not as a side effect of catalog reads, and is
// idempotent: a non-empty catalog is left untouched and concurrent name
// collisions are ignored.
func Seed(ctx context.Context, s Store, now time.Time) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count funds before seed: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, f := range starterFunds {
		fund := models.Fund{
			ID:            id.NewFundID(),
			Name:          f.name,
			MinimumAmount: f.minimum,
			Category:      f.category,
			Active:        true,
			CreatedAt:     now,
		}
		if err := s.CreateIfNameAvailable(ctx, fund); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				continue
			}
			return inserted, fmt.Errorf("seed fund %s: %w", f.name, err)
		}
		inserted++
	}
	return inserted, nil
}
