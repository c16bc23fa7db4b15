package journal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	clientmodels "fondos/internal/client/models"
	journalmodels "fondos/internal/journal/models"
	"fondos/internal/journal/store"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/requestcontext"
)

type JournalServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	service *Service
	owner   id.ClientID
	tx      journalmodels.Transaction
}

func TestJournalServiceSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceSuite))
}

func (s *JournalServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.service = New(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.owner = id.NewClientID()

	s.tx = journalmodels.Transaction{
		ID:        id.NewTransactionID(),
		ClientID:  s.owner,
		FundID:    id.NewFundID(),
		Type:      journalmodels.TypeSubscription,
		Status:    journalmodels.StatusCompleted,
		Amount:    75_000,
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.store.Save(context.Background(), s.tx))
}

func (s *JournalServiceSuite) TestGetOwnership() {
	s.Run("owner reads own record", func() {
		ctx := requestcontext.WithClientID(context.Background(), s.owner)
		tx, err := s.service.Get(ctx, s.tx.ID)
		s.Require().NoError(err)
		s.Equal(s.tx.ID, tx.ID)
	})

	s.Run("stranger gets not_found, not forbidden", func() {
		ctx := requestcontext.WithClientID(context.Background(), id.NewClientID())
		_, err := s.service.Get(ctx, s.tx.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("admin reads any record", func() {
		ctx := requestcontext.WithClientID(context.Background(), id.NewClientID())
		ctx = requestcontext.WithRole(ctx, string(clientmodels.RoleAdmin))
		tx, err := s.service.Get(ctx, s.tx.ID)
		s.Require().NoError(err)
		s.Equal(s.tx.ID, tx.ID)
	})

	s.Run("nil id is invalid input", func() {
		_, err := s.service.Get(context.Background(), id.TransactionID{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *JournalServiceSuite) TestHistoryDefaults() {
	ctx := requestcontext.WithClientID(context.Background(), s.owner)

	page, err := s.service.History(ctx, s.owner, store.ListFilter{})
	s.Require().NoError(err)
	s.Equal(1, page.Total)

	// An oversized limit is clamped rather than rejected.
	_, err = s.service.History(ctx, s.owner, store.ListFilter{Limit: 10_000})
	s.Require().NoError(err)
}
