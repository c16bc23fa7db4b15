package subscription

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	catalogmodels "fondos/internal/catalog/models"
	catalogstore "fondos/internal/catalog/store"
	clientmodels "fondos/internal/client/models"
	clientstore "fondos/internal/client/store"
	journalmodels "fondos/internal/journal/models"
	journalstore "fondos/internal/journal/store"
	"fondos/internal/subscription/mocks"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/requestcontext"
)

// The engine's persistence ordering and rollback behavior cannot be observed
// through the HTTP surface, so they are pinned here against the in-memory
// stores and, for injected failures, gomock.
type EngineSuite struct {
	suite.Suite
	funds   *catalogstore.InMemory
	clients *clientstore.InMemory
	journal *journalstore.InMemory
	engine  *Service

	fund   catalogmodels.Fund
	client *clientmodels.Client
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.funds = catalogstore.NewInMemory()
	s.clients = clientstore.NewInMemory()
	s.journal = journalstore.NewInMemory()
	s.engine = New(s.funds, s.clients, s.journal, slog.New(slog.NewTextHandler(io.Discard, nil)))

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.fund = catalogmodels.Fund{
		ID:            id.NewFundID(),
		Name:          "FPV_BTG_PACTUAL_RECAUDADORA",
		MinimumAmount: 75_000,
		Category:      catalogmodels.CategoryFPV,
		Active:        true,
		CreatedAt:     now,
	}
	s.Require().NoError(s.funds.CreateIfNameAvailable(context.Background(), s.fund))

	s.client = &clientmodels.Client{
		ID:         id.NewClientID(),
		Name:       "Maria Gomez",
		Email:      "maria@example.com",
		Balance:    500_000,
		Preference: clientmodels.NotifyByEmail,
		Active:     true,
		Role:       clientmodels.RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.Require().NoError(s.clients.Create(context.Background(), s.client))
}

func (s *EngineSuite) storedClient() *clientmodels.Client {
	c, err := s.clients.FindByID(context.Background(), s.client.ID)
	s.Require().NoError(err)
	return c
}

func (s *EngineSuite) TestSubscribe() {
	ctx := context.Background()

	s.Run("moves the fund minimum from balance to a membership", func() {
		result, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
		s.Require().NoError(err)

		s.Equal(journalmodels.TypeSubscription, result.Type)
		s.Equal(int64(75_000), result.Amount)
		s.Equal(int64(500_000), result.BalanceBefore)
		s.Equal(int64(425_000), result.BalanceAfter)
		s.Equal(1, result.MembershipCount)
		s.Equal("Maria Gomez", result.ClientName)
		s.Equal(s.fund.Name, result.Fund.Name)

		stored := s.storedClient()
		s.Equal(int64(425_000), stored.Balance)
		s.Require().Len(stored.Memberships, 1)
		s.Equal(s.fund.ID, stored.Memberships[0].FundID)
		s.Equal(int64(75_000), stored.Memberships[0].InvestedAmount)

		tx, err := s.journal.FindByExternalID(ctx, result.TransactionID)
		s.Require().NoError(err)
		s.Equal(journalmodels.StatusCompleted, tx.Status)
		s.Equal(int64(500_000), tx.Metadata.BalanceBefore)
		s.Equal(int64(425_000), tx.Metadata.BalanceAfter)
	})

	s.Run("second subscribe to the same fund conflicts", func() {
		_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		// State unchanged by the rejection.
		s.Equal(int64(425_000), s.storedClient().Balance)
	})
}

func (s *EngineSuite) TestSubscribeValidation() {
	ctx := context.Background()

	s.Run("nil fund id is invalid input", func() {
		_, err := s.engine.Subscribe(ctx, s.client.ID, id.FundID{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown fund is not found", func() {
		_, err := s.engine.Subscribe(ctx, s.client.ID, id.NewFundID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown client is not found", func() {
		_, err := s.engine.Subscribe(ctx, id.NewClientID(), s.fund.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("inactive fund conflicts", func() {
		s.Require().NoError(s.funds.SetActive(ctx, s.fund.ID, false))
		_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Require().NoError(s.funds.SetActive(ctx, s.fund.ID, true))
	})

	s.Run("disabled client is forbidden", func() {
		disabled := s.storedClient()
		disabled.Active = false
		s.Require().NoError(s.clients.Save(ctx, disabled))

		_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		disabled.Active = true
		s.Require().NoError(s.clients.Save(ctx, disabled))
	})
}

func (s *EngineSuite) TestSubscribeInsufficientBalance() {
	ctx := context.Background()

	poor := s.storedClient()
	poor.Balance = 74_999
	s.Require().NoError(s.clients.Save(ctx, poor))

	_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	var ibErr *InsufficientBalanceError
	s.Require().ErrorAs(err, &ibErr)
	s.Equal(int64(74_999), ibErr.Balance)
	s.Equal(int64(75_000), ibErr.Required)
	s.Equal(int64(1), ibErr.Shortfall)

	// The rejection is journaled as a failed record; no money moved.
	s.Equal(int64(74_999), s.storedClient().Balance)
	page, err := s.journal.ListByClient(ctx, s.client.ID, journalstore.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(page.Transactions, 1)
	s.Equal(journalmodels.StatusFailed, page.Transactions[0].Status)
	s.NotEmpty(page.Transactions[0].Metadata.FailureReason)
}

// TestCumulativeSubscriptionsShortfall subscribes until the balance can no
// longer cover the next fund and checks the reported shortfall.
func (s *EngineSuite) TestCumulativeSubscriptionsShortfall() {
	ctx := context.Background()

	mk := func(name string, minimum int64) catalogmodels.Fund {
		fund := catalogmodels.Fund{
			ID:            id.NewFundID(),
			Name:          name,
			MinimumAmount: minimum,
			Category:      catalogmodels.CategoryFIC,
			Active:        true,
			CreatedAt:     time.Now().UTC(),
		}
		s.Require().NoError(s.funds.CreateIfNameAvailable(ctx, fund))
		return fund
	}
	// s.fund covers the 75_000 tranche; the rest fill out 350_000 invested.
	affordable := []catalogmodels.Fund{
		mk("DEUDAPRIVADA", 50_000),
		s.fund,
		mk("FPV_BTG_PACTUAL_DINAMICA", 100_000),
		mk("FPV_BTG_PACTUAL_ECOPETROL", 125_000),
	}
	expensive := mk("FDO-ACCIONES", 250_000)

	for _, fund := range affordable {
		_, err := s.engine.Subscribe(ctx, s.client.ID, fund.ID)
		s.Require().NoError(err)
	}
	s.Equal(int64(150_000), s.storedClient().Balance)

	_, err := s.engine.Subscribe(ctx, s.client.ID, expensive.ID)
	s.Require().Error(err)

	var ibErr *InsufficientBalanceError
	s.Require().ErrorAs(err, &ibErr)
	s.Equal(int64(150_000), ibErr.Balance)
	s.Equal(int64(250_000), ibErr.Required)
	s.Equal(int64(100_000), ibErr.Shortfall)

	// The failed attempt left the earlier subscriptions untouched.
	stored := s.storedClient()
	s.Equal(int64(150_000), stored.Balance)
	s.Len(stored.Memberships, 4)
}

func (s *EngineSuite) TestSubscribeBoundaryBalance() {
	ctx := context.Background()

	exact := s.storedClient()
	exact.Balance = 75_000
	s.Require().NoError(s.clients.Save(ctx, exact))

	result, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), result.BalanceAfter)
	s.Equal(int64(0), s.storedClient().Balance)
}

func (s *EngineSuite) TestCancel() {
	ctx := context.Background()

	s.Run("cancel before subscribing conflicts", func() {
		_, err := s.engine.Cancel(ctx, s.client.ID, s.fund.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("cancel returns the invested amount", func() {
		sub, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
		s.Require().NoError(err)

		result, err := s.engine.Cancel(ctx, s.client.ID, s.fund.ID)
		s.Require().NoError(err)
		s.Equal(journalmodels.TypeCancellation, result.Type)
		s.Equal(int64(75_000), result.Amount)
		s.Equal(int64(425_000), result.BalanceBefore)
		s.Equal(int64(500_000), result.BalanceAfter)
		s.Equal(0, result.MembershipCount)
		s.Equal(sub.Timestamp, result.SubscribedAt)

		stored := s.storedClient()
		s.Equal(int64(500_000), stored.Balance)
		s.Empty(stored.Memberships)
	})

	s.Run("second cancel conflicts", func() {
		_, err := s.engine.Cancel(ctx, s.client.ID, s.fund.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("cancelling an inactive fund still works", func() {
		_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
		s.Require().NoError(err)
		s.Require().NoError(s.funds.SetActive(ctx, s.fund.ID, false))

		_, err = s.engine.Cancel(ctx, s.client.ID, s.fund.ID)
		s.Require().NoError(err)
	})
}

// TestMoneyConservation walks a subscribe/cancel round trip across several
// funds and checks that balance plus invested total never changes.
func (s *EngineSuite) TestMoneyConservation() {
	ctx := context.Background()

	second := catalogmodels.Fund{
		ID:            id.NewFundID(),
		Name:          "DEUDAPRIVADA",
		MinimumAmount: 50_000,
		Category:      catalogmodels.CategoryFIC,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	s.Require().NoError(s.funds.CreateIfNameAvailable(ctx, second))

	patrimony := func() int64 {
		c := s.storedClient()
		return c.Balance + c.TotalInvested()
	}
	initial := patrimony()

	_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
	s.Require().NoError(err)
	s.Equal(initial, patrimony())

	_, err = s.engine.Subscribe(ctx, s.client.ID, second.ID)
	s.Require().NoError(err)
	s.Equal(initial, patrimony())

	_, err = s.engine.Cancel(ctx, s.client.ID, s.fund.ID)
	s.Require().NoError(err)
	s.Equal(initial, patrimony())

	_, err = s.engine.Cancel(ctx, s.client.ID, second.ID)
	s.Require().NoError(err)
	s.Equal(initial, patrimony())
	s.Equal(int64(500_000), s.storedClient().Balance)
}

// TestCancelPreservesMembershipOrder cancels the middle of three memberships
// and checks the remaining order.
func (s *EngineSuite) TestCancelPreservesMembershipOrder() {
	ctx := context.Background()

	var fundIDs []id.FundID
	for _, f := range []struct {
		name    string
		minimum int64
	}{
		{"DEUDAPRIVADA", 50_000},
		{"FPV_BTG_PACTUAL_DINAMICA", 100_000},
	} {
		fund := catalogmodels.Fund{
			ID:            id.NewFundID(),
			Name:          f.name,
			MinimumAmount: f.minimum,
			Category:      catalogmodels.CategoryFIC,
			Active:        true,
			CreatedAt:     time.Now().UTC(),
		}
		s.Require().NoError(s.funds.CreateIfNameAvailable(ctx, fund))
		fundIDs = append(fundIDs, fund.ID)
	}

	_, err := s.engine.Subscribe(ctx, s.client.ID, s.fund.ID)
	s.Require().NoError(err)
	_, err = s.engine.Subscribe(ctx, s.client.ID, fundIDs[0])
	s.Require().NoError(err)
	_, err = s.engine.Subscribe(ctx, s.client.ID, fundIDs[1])
	s.Require().NoError(err)

	_, err = s.engine.Cancel(ctx, s.client.ID, fundIDs[0])
	s.Require().NoError(err)

	stored := s.storedClient()
	s.Require().Len(stored.Memberships, 2)
	s.Equal(s.fund.ID, stored.Memberships[0].FundID)
	s.Equal(fundIDs[1], stored.Memberships[1].FundID)
}

// TestRollback injects persistence failures through gomock and checks that
// storage returns to its pre-operation state.
func TestRollback(t *testing.T) {
	newFixtures := func(t *testing.T) (catalogmodels.Fund, *clientmodels.Client, *catalogstore.InMemory, *clientstore.InMemory) {
		t.Helper()
		funds := catalogstore.NewInMemory()
		clients := clientstore.NewInMemory()
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

		fund := catalogmodels.Fund{
			ID:            id.NewFundID(),
			Name:          "FDO-ACCIONES",
			MinimumAmount: 250_000,
			Category:      catalogmodels.CategoryFIC,
			Active:        true,
			CreatedAt:     now,
		}
		if err := funds.CreateIfNameAvailable(context.Background(), fund); err != nil {
			t.Fatal(err)
		}

		client := &clientmodels.Client{
			ID:         id.NewClientID(),
			Name:       "Pedro Ruiz",
			Email:      "pedro@example.com",
			Balance:    500_000,
			Preference: clientmodels.NotifyByEmail,
			Active:     true,
			Role:       clientmodels.RoleUser,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := clients.Create(context.Background(), client); err != nil {
			t.Fatal(err)
		}
		return fund, client, funds, clients
	}

	t.Run("transaction save failure restores the persisted client", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fund, client, funds, clients := newFixtures(t)

		journal := mocks.NewMockTransactionStore(ctrl)
		journal.EXPECT().Save(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		engine := New(funds, clients, journal, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := engine.Subscribe(context.Background(), client.ID, fund.ID)
		if !dErrors.HasCode(err, dErrors.CodeInternal) {
			t.Fatalf("expected internal error, got %v", err)
		}

		stored, err2 := clients.FindByID(context.Background(), client.ID)
		if err2 != nil {
			t.Fatal(err2)
		}
		if stored.Balance != 500_000 {
			t.Fatalf("balance not restored: %d", stored.Balance)
		}
		if len(stored.Memberships) != 0 {
			t.Fatalf("membership not rolled back: %+v", stored.Memberships)
		}
	})

	t.Run("client save failure leaves nothing persisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fund, client, funds, _ := newFixtures(t)

		clients := mocks.NewMockClientStore(ctrl)
		clients.EXPECT().FindByID(gomock.Any(), client.ID).Return(client, nil)
		clients.EXPECT().Save(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		journal := journalstore.NewInMemory()
		engine := New(funds, clients, journal, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := engine.Subscribe(context.Background(), client.ID, fund.ID)
		if !dErrors.HasCode(err, dErrors.CodeInternal) {
			t.Fatalf("expected internal error, got %v", err)
		}

		page, err := journal.ListByClient(context.Background(), client.ID, journalstore.ListFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Transactions) != 0 {
			t.Fatalf("transaction journaled without a client save: %+v", page.Transactions)
		}
	})

	t.Run("cancel rollback re-inserts the membership at its position", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fund, client, funds, clients := newFixtures(t)

		other := catalogmodels.Fund{
			ID:            id.NewFundID(),
			Name:          "DEUDAPRIVADA",
			MinimumAmount: 50_000,
			Category:      catalogmodels.CategoryFIC,
			Active:        true,
			CreatedAt:     time.Now().UTC(),
		}
		if err := funds.CreateIfNameAvailable(context.Background(), other); err != nil {
			t.Fatal(err)
		}

		setup := New(funds, clients, journalstore.NewInMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
		if _, err := setup.Subscribe(context.Background(), client.ID, fund.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := setup.Subscribe(context.Background(), client.ID, other.ID); err != nil {
			t.Fatal(err)
		}

		journal := mocks.NewMockTransactionStore(ctrl)
		journal.EXPECT().Save(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)
		engine := New(funds, clients, journal, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := engine.Cancel(context.Background(), client.ID, fund.ID)
		if !dErrors.HasCode(err, dErrors.CodeInternal) {
			t.Fatalf("expected internal error, got %v", err)
		}

		stored, err := clients.FindByID(context.Background(), client.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(stored.Memberships) != 2 {
			t.Fatalf("expected membership restored, got %+v", stored.Memberships)
		}
		if stored.Memberships[0].FundID != fund.ID {
			t.Fatalf("membership not restored at original position: %+v", stored.Memberships)
		}
		if stored.Balance != 500_000-fund.MinimumAmount-other.MinimumAmount {
			t.Fatalf("balance not restored: %d", stored.Balance)
		}
	})
}

// TestMissingClientWithContextHonoringFundRead pins the error taxonomy of
// the concurrent load: a missing client cancels the in-flight fund read,
// and the resulting context error must not mask the not-found.
func TestMissingClientWithContextHonoringFundRead(t *testing.T) {
	ctrl := gomock.NewController(t)

	funds := mocks.NewMockFundStore(ctrl)
	funds.EXPECT().FindByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ id.FundID) (catalogmodels.Fund, error) {
			<-ctx.Done()
			return catalogmodels.Fund{}, ctx.Err()
		})

	clients := mocks.NewMockClientStore(ctrl)
	clients.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

	engine := New(funds, clients, journalstore.NewInMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := engine.Subscribe(context.Background(), id.NewClientID(), id.NewFundID())
	if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected not_found, got code=%s err=%v", dErrors.CodeOf(err), err)
	}
}

// TestNotificationFireAndForget checks the dispatcher is invoked after
// commit without affecting the result.
func TestNotificationFireAndForget(t *testing.T) {
	funds := catalogstore.NewInMemory()
	clients := clientstore.NewInMemory()
	journal := journalstore.NewInMemory()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	fund := catalogmodels.Fund{
		ID:            id.NewFundID(),
		Name:          "FPV_BTG_PACTUAL_DINAMICA",
		MinimumAmount: 100_000,
		Category:      catalogmodels.CategoryFPV,
		Active:        true,
		CreatedAt:     now,
	}
	if err := funds.CreateIfNameAvailable(context.Background(), fund); err != nil {
		t.Fatal(err)
	}
	client := &clientmodels.Client{
		ID:         id.NewClientID(),
		Name:       "Lucia Torres",
		Email:      "lucia@example.com",
		Balance:    500_000,
		Preference: clientmodels.NotifyBySMS,
		Active:     true,
		Role:       clientmodels.RoleUser,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := clients.Create(context.Background(), client); err != nil {
		t.Fatal(err)
	}

	notified := make(chan journalmodels.Transaction, 1)
	engine := New(funds, clients, journal, slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithNotifier(notifierFunc(func(tx journalmodels.Transaction) { notified <- tx })),
	)

	result, err := engine.Subscribe(context.Background(), client.ID, fund.ID)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case tx := <-notified:
		if tx.ID != result.TransactionID {
			t.Fatalf("notified about the wrong transaction: %s", tx.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification never dispatched")
	}
}

// notifierFunc adapts a function to the Notifier interface for tests.
type notifierFunc func(tx journalmodels.Transaction)

func (f notifierFunc) NotifySubscription(_ context.Context, _ *clientmodels.Client, _ catalogmodels.Fund, tx journalmodels.Transaction) {
	f(tx)
}

func (f notifierFunc) NotifyCancellation(_ context.Context, _ *clientmodels.Client, _ catalogmodels.Fund, tx journalmodels.Transaction) {
	f(tx)
}

// TestDeterministicTimestamps pins the engine to the request clock so
// results are reproducible under test.
func TestDeterministicTimestamps(t *testing.T) {
	funds := catalogstore.NewInMemory()
	clients := clientstore.NewInMemory()
	journal := journalstore.NewInMemory()
	frozen := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

	fund := catalogmodels.Fund{
		ID:            id.NewFundID(),
		Name:          "DEUDAPRIVADA",
		MinimumAmount: 50_000,
		Category:      catalogmodels.CategoryFIC,
		Active:        true,
		CreatedAt:     frozen,
	}
	if err := funds.CreateIfNameAvailable(context.Background(), fund); err != nil {
		t.Fatal(err)
	}
	client := &clientmodels.Client{
		ID:         id.NewClientID(),
		Name:       "Ana Diaz",
		Email:      "ana@example.com",
		Balance:    500_000,
		Preference: clientmodels.NotifyByEmail,
		Active:     true,
		Role:       clientmodels.RoleUser,
		CreatedAt:  frozen,
		UpdatedAt:  frozen,
	}
	if err := clients.Create(context.Background(), client); err != nil {
		t.Fatal(err)
	}

	engine := New(funds, clients, journal, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := requestcontext.WithTime(context.Background(), frozen)

	result, err := engine.Subscribe(ctx, client.ID, fund.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Timestamp.Equal(frozen) {
		t.Fatalf("expected frozen timestamp, got %s", result.Timestamp)
	}
}
