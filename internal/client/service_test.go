package client

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fondos/internal/catalog"
	catalogmodels "fondos/internal/catalog/models"
	catalogstore "fondos/internal/catalog/store"
	"fondos/internal/client/models"
	clientstore "fondos/internal/client/store"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
)

type ClientServiceSuite struct {
	suite.Suite
	clients *clientstore.InMemory
	funds   *catalogstore.InMemory
	service *Service
	client  *models.Client
	fund    catalogmodels.Fund
}

func TestClientServiceSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceSuite))
}

func (s *ClientServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.clients = clientstore.NewInMemory()
	s.funds = catalogstore.NewInMemory()
	s.service = New(s.clients, catalog.New(s.funds, logger), logger)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.fund = catalogmodels.Fund{
		ID:            id.NewFundID(),
		Name:          "DEUDAPRIVADA",
		MinimumAmount: 50_000,
		Category:      catalogmodels.CategoryFIC,
		Active:        true,
		CreatedAt:     now,
	}
	s.Require().NoError(s.funds.CreateIfNameAvailable(context.Background(), s.fund))

	s.client = &models.Client{
		ID:         id.NewClientID(),
		Name:       "Maria Gomez",
		Email:      "maria@example.com",
		Balance:    450_000,
		Preference: models.NotifyByEmail,
		Memberships: []models.Membership{
			{FundID: s.fund.ID, InvestedAmount: 50_000, SubscribedAt: now},
		},
		Active:    true,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Require().NoError(s.clients.Create(context.Background(), s.client))
}

func (s *ClientServiceSuite) TestBalanceSummary() {
	summary, err := s.service.Balance(context.Background(), s.client.ID)
	s.Require().NoError(err)
	s.Equal(int64(450_000), summary.Balance)
	s.Equal(int64(50_000), summary.TotalInvested)
	s.Equal(int64(500_000), summary.Patrimony)
}

func (s *ClientServiceSuite) TestFundsJoinsCatalog() {
	held, err := s.service.Funds(context.Background(), s.client.ID)
	s.Require().NoError(err)
	s.Require().Len(held, 1)
	s.Equal("DEUDAPRIVADA", held[0].Fund.Name)
	s.Equal(int64(50_000), held[0].Membership.InvestedAmount)
}

func (s *ClientServiceSuite) TestUpdateProfile() {
	ctx := context.Background()

	s.Run("applies provided fields only", func() {
		name := "Maria G. de Leon"
		pref := models.NotifyBySMS
		updated, err := s.service.UpdateProfile(ctx, s.client.ID, UpdateParams{Name: &name, Preference: &pref})
		s.Require().NoError(err)
		s.Equal(name, updated.Name)
		s.Equal(pref, updated.Preference)
		s.Equal("maria@example.com", updated.Email)
		s.Equal(int64(450_000), updated.Balance)
	})

	s.Run("empty name is rejected", func() {
		empty := "   "
		_, err := s.service.UpdateProfile(ctx, s.client.ID, UpdateParams{Name: &empty})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown client is not found", func() {
		name := "Nobody"
		_, err := s.service.UpdateProfile(ctx, id.NewClientID(), UpdateParams{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
