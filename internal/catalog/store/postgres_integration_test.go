//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fondos/internal/catalog/models"
	"fondos/internal/catalog/store"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/testutil/containers"
)

type PostgresFundStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresFundStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresFundStoreSuite))
}

func (s *PostgresFundStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresFundStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "funds"))
}

func newTestFund(name string) models.Fund {
	return models.Fund{
		ID:            id.NewFundID(),
		Name:          name,
		MinimumAmount: 75_000,
		Category:      models.CategoryFPV,
		Active:        true,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresFundStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	fund := newTestFund("FPV_BTG_PACTUAL_RECAUDADORA")
	s.Require().NoError(s.store.CreateIfNameAvailable(ctx, fund))

	found, err := s.store.FindByID(ctx, fund.ID)
	s.Require().NoError(err)
	s.Equal(fund.Name, found.Name)
	s.Equal(fund.MinimumAmount, found.MinimumAmount)
	s.Equal(fund.Category, found.Category)
	s.True(found.Active)
}

// TestConcurrentUniqueNameViolation verifies that concurrent creates with
// the same name result in exactly one success.
func (s *PostgresFundStoreSuite) TestConcurrentUniqueNameViolation() {
	ctx := context.Background()
	const goroutines = 25

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateIfNameAvailable(ctx, newTestFund("DEUDAPRIVADA"))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *PostgresFundStoreSuite) TestSetActive() {
	ctx := context.Background()
	fund := newTestFund("FDO-ACCIONES")
	s.Require().NoError(s.store.CreateIfNameAvailable(ctx, fund))

	s.Require().NoError(s.store.SetActive(ctx, fund.ID, false))

	found, err := s.store.FindByID(ctx, fund.ID)
	s.Require().NoError(err)
	s.False(found.Active)

	err = s.store.SetActive(ctx, id.NewFundID(), false)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresFundStoreSuite) TestListOrdering() {
	ctx := context.Background()
	for _, name := range []string{"FPV_BTG_PACTUAL_RECAUDADORA", "DEUDAPRIVADA", "FDO-ACCIONES"} {
		s.Require().NoError(s.store.CreateIfNameAvailable(ctx, newTestFund(name)))
	}

	funds, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(funds, 3)
	s.Equal("DEUDAPRIVADA", funds[0].Name)
	s.Equal("FDO-ACCIONES", funds[1].Name)
	s.Equal("FPV_BTG_PACTUAL_RECAUDADORA", funds[2].Name)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}
