package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fondos/internal/journal/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

type InMemoryJournalSuite struct {
	suite.Suite
	store    *InMemory
	clientID id.ClientID
}

func TestInMemoryJournalSuite(t *testing.T) {
	suite.Run(t, new(InMemoryJournalSuite))
}

func (s *InMemoryJournalSuite) SetupTest() {
	s.store = NewInMemory()
	s.clientID = id.NewClientID()
}

func (s *InMemoryJournalSuite) record(txType models.Type, status models.Status, at time.Time) models.Transaction {
	return models.Transaction{
		ID:        id.NewTransactionID(),
		ClientID:  s.clientID,
		FundID:    id.NewFundID(),
		Type:      txType,
		Status:    status,
		Amount:    75_000,
		CreatedAt: at,
	}
}

func (s *InMemoryJournalSuite) TestAppendOnly() {
	ctx := context.Background()
	tx := s.record(models.TypeSubscription, models.StatusCompleted, time.Now().UTC())

	s.Require().NoError(s.store.Save(ctx, tx))
	s.Require().ErrorIs(s.store.Save(ctx, tx), sentinel.ErrConflict)

	found, err := s.store.FindByExternalID(ctx, tx.ID)
	s.Require().NoError(err)
	s.Equal(tx.ID, found.ID)

	_, err = s.store.FindByExternalID(ctx, id.NewTransactionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryJournalSuite) TestListByClientFiltersAndPaginates() {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.Save(ctx, s.record(models.TypeSubscription, models.StatusCompleted, base.Add(time.Duration(i)*time.Hour))))
	}
	s.Require().NoError(s.store.Save(ctx, s.record(models.TypeCancellation, models.StatusCompleted, base.Add(4*time.Hour))))
	s.Require().NoError(s.store.Save(ctx, s.record(models.TypeSubscription, models.StatusFailed, base.Add(5*time.Hour))))

	// Another client's records stay invisible.
	other := s.record(models.TypeSubscription, models.StatusCompleted, base)
	other.ClientID = id.NewClientID()
	s.Require().NoError(s.store.Save(ctx, other))

	s.Run("newest first, all records", func() {
		page, err := s.store.ListByClient(ctx, s.clientID, ListFilter{})
		s.Require().NoError(err)
		s.Equal(5, page.Total)
		s.Require().Len(page.Transactions, 5)
		s.Equal(models.StatusFailed, page.Transactions[0].Status)
	})

	s.Run("type filter", func() {
		page, err := s.store.ListByClient(ctx, s.clientID, ListFilter{Type: models.TypeCancellation})
		s.Require().NoError(err)
		s.Equal(1, page.Total)
	})

	s.Run("status filter", func() {
		page, err := s.store.ListByClient(ctx, s.clientID, ListFilter{Status: models.StatusCompleted})
		s.Require().NoError(err)
		s.Equal(4, page.Total)
	})

	s.Run("pagination window with total intact", func() {
		page, err := s.store.ListByClient(ctx, s.clientID, ListFilter{Limit: 2, Offset: 1})
		s.Require().NoError(err)
		s.Equal(5, page.Total)
		s.Require().Len(page.Transactions, 2)
	})

	s.Run("offset past the end yields empty page", func() {
		page, err := s.store.ListByClient(ctx, s.clientID, ListFilter{Offset: 50})
		s.Require().NoError(err)
		s.Empty(page.Transactions)
		s.Equal(5, page.Total)
	})
}

func (s *InMemoryJournalSuite) TestMarkNotified() {
	ctx := context.Background()
	tx := s.record(models.TypeSubscription, models.StatusCompleted, time.Now().UTC())
	s.Require().NoError(s.store.Save(ctx, tx))

	s.Require().NoError(s.store.MarkNotified(ctx, tx.ID))
	found, err := s.store.FindByExternalID(ctx, tx.ID)
	s.Require().NoError(err)
	s.True(found.Metadata.NotificationSent)

	s.Require().ErrorIs(s.store.MarkNotified(ctx, id.NewTransactionID()), sentinel.ErrNotFound)
}
