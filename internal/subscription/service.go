package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	catalogmodels "fondos/internal/catalog/models"
	clientmodels "fondos/internal/client/models"
	journalmodels "fondos/internal/journal/models"
	"fondos/internal/subscription/metrics"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/audit"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/requestcontext"
)

// Service is the subscription engine. Each Subscribe/Cancel call is an
// independent unit of work: load fund and client, validate, mutate a clone,
// persist client then transaction in that order, and compensate by restoring
// the pre-mutation client if the transaction save fails after the client
// save succeeded.
type Service struct {
	funds    FundStore
	clients  ClientStore
	journal  TransactionStore
	notifier Notifier
	auditp   audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithNotifier wires the post-commit notification dispatcher.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAuditPublisher wires the audit sink for money movements.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.auditp = p }
}

// WithMetrics wires the engine metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the engine.
func New(funds FundStore, clients ClientStore, journal TransactionStore, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		funds:   funds,
		clients: clients,
		journal: journal,
		logger:  logger,
		tracer:  otel.Tracer("fondos/internal/subscription"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Subscribe opens a membership in fundID for clientID, moving the fund's
// minimum amount from balance to the membership.
func (s *Service) Subscribe(ctx context.Context, clientID id.ClientID, fundID id.FundID) (*SubscribeResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "subscription.Subscribe", trace.WithAttributes(
		attribute.String("client_id", clientID.String()),
		attribute.String("fund_id", fundID.String()),
	))
	defer span.End()
	defer s.observeSubscribe(start)

	result, err := s.subscribe(ctx, clientID, fundID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(dErrors.CodeOf(err)))
		s.countSubscribe(string(dErrors.CodeOf(err)))
		return nil, err
	}
	s.countSubscribe("committed")
	return result, nil
}

func (s *Service) subscribe(ctx context.Context, clientID id.ClientID, fundID id.FundID) (*SubscribeResult, error) {
	fund, client, err := s.loadPair(ctx, clientID, fundID)
	if err != nil {
		return nil, err
	}
	if !fund.Active {
		return nil, dErrors.New(dErrors.CodeConflict, "fund is not accepting subscriptions")
	}
	if !client.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "client account is disabled")
	}
	if client.HasMembership(fundID) {
		return nil, dErrors.New(dErrors.CodeConflict, "already subscribed to this fund")
	}
	if client.Balance < fund.MinimumAmount {
		ibErr := &InsufficientBalanceError{
			Balance:   client.Balance,
			Required:  fund.MinimumAmount,
			Shortfall: fund.MinimumAmount - client.Balance,
		}
		s.recordRejection(ctx, client, fund, journalmodels.TypeSubscription, ibErr.Error())
		s.emitAudit(ctx, audit.Event{
			Action:   audit.ActionSubscriptionRejected,
			ClientID: clientID,
			FundID:   fundID,
			Amount:   fund.MinimumAmount,
			Reason:   "insufficient_balance",
		})
		return nil, dErrors.Wrap(ibErr, dErrors.CodeConflict, "insufficient balance to subscribe")
	}

	now := requestcontext.Now(ctx)
	working := client.Clone()
	balanceBefore := working.Balance
	working.Balance -= fund.MinimumAmount
	working.Memberships = append(working.Memberships, clientmodels.Membership{
		FundID:         fund.ID,
		InvestedAmount: fund.MinimumAmount,
		SubscribedAt:   now,
	})
	working.UpdatedAt = now

	tx := journalmodels.Transaction{
		ID:       id.NewTransactionID(),
		ClientID: client.ID,
		FundID:   fund.ID,
		Type:     journalmodels.TypeSubscription,
		Status:   journalmodels.StatusCompleted,
		Amount:   fund.MinimumAmount,
		Metadata: journalmodels.Metadata{
			BalanceBefore: balanceBefore,
			BalanceAfter:  working.Balance,
			ClientName:    client.Name,
			FundName:      fund.Name,
		},
		CreatedAt: now,
	}

	if err := s.persistPair(ctx, client, working, tx); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, audit.Event{
		Action:        audit.ActionFundSubscribed,
		ClientID:      client.ID,
		FundID:        fund.ID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
	})
	s.notify(ctx, working, fund, tx)

	return &SubscribeResult{
		TransactionID:   tx.ID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		Timestamp:       tx.CreatedAt,
		ClientName:      client.Name,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    working.Balance,
		MembershipCount: len(working.Memberships),
		Fund:            summarize(fund),
	}, nil
}

// Cancel closes the clientID membership in fundID, returning the invested
// amount to the balance.
func (s *Service) Cancel(ctx context.Context, clientID id.ClientID, fundID id.FundID) (*CancelResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "subscription.Cancel", trace.WithAttributes(
		attribute.String("client_id", clientID.String()),
		attribute.String("fund_id", fundID.String()),
	))
	defer span.End()
	defer s.observeCancel(start)

	result, err := s.cancel(ctx, clientID, fundID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(dErrors.CodeOf(err)))
		s.countCancel(string(dErrors.CodeOf(err)))
		return nil, err
	}
	s.countCancel("committed")
	return result, nil
}

func (s *Service) cancel(ctx context.Context, clientID id.ClientID, fundID id.FundID) (*CancelResult, error) {
	fund, client, err := s.loadPair(ctx, clientID, fundID)
	if err != nil {
		return nil, err
	}
	if !client.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "client account is disabled")
	}
	idx := client.MembershipIndex(fundID)
	if idx < 0 {
		return nil, dErrors.New(dErrors.CodeConflict, "not subscribed to this fund")
	}
	removed := client.Memberships[idx]

	now := requestcontext.Now(ctx)
	working := client.Clone()
	balanceBefore := working.Balance
	working.Balance += removed.InvestedAmount
	working.Memberships = append(working.Memberships[:idx], working.Memberships[idx+1:]...)
	working.UpdatedAt = now

	tx := journalmodels.Transaction{
		ID:       id.NewTransactionID(),
		ClientID: client.ID,
		FundID:   fund.ID,
		Type:     journalmodels.TypeCancellation,
		Status:   journalmodels.StatusCompleted,
		Amount:   removed.InvestedAmount,
		Metadata: journalmodels.Metadata{
			BalanceBefore: balanceBefore,
			BalanceAfter:  working.Balance,
			ClientName:    client.Name,
			FundName:      fund.Name,
		},
		CreatedAt: now,
	}

	if err := s.persistPair(ctx, client, working, tx); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, audit.Event{
		Action:        audit.ActionFundCancelled,
		ClientID:      client.ID,
		FundID:        fund.ID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
	})
	s.notify(ctx, working, fund, tx)

	return &CancelResult{
		TransactionID:   tx.ID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		Timestamp:       tx.CreatedAt,
		ClientName:      client.Name,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    working.Balance,
		MembershipCount: len(working.Memberships),
		SubscribedAt:    removed.SubscribedAt,
		Fund:            summarize(fund),
	}, nil
}

// loadPair fetches the fund and the client concurrently; neither read
// depends on the other. When both lookups miss, the fund's not-found wins
// so the caller always hears about a bad fund id first. A fund read that
// failed only because the sibling's error cancelled the group must not
// mask that error, so only a genuine fund not-found takes the tie.
func (s *Service) loadPair(ctx context.Context, clientID id.ClientID, fundID id.FundID) (catalogmodels.Fund, *clientmodels.Client, error) {
	if fundID.IsNil() {
		return catalogmodels.Fund{}, nil, dErrors.New(dErrors.CodeInvalidInput, "fund_id is required")
	}
	if clientID.IsNil() {
		return catalogmodels.Fund{}, nil, dErrors.New(dErrors.CodeInvalidInput, "client_id is required")
	}

	var (
		fund    catalogmodels.Fund
		fundErr error
		client  *clientmodels.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.funds.FindByID(gctx, fundID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				fundErr = dErrors.New(dErrors.CodeNotFound, "fund not found")
			} else {
				fundErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load fund")
			}
			return fundErr
		}
		fund = f
		return nil
	})
	g.Go(func() error {
		c, err := s.clients.FindByID(gctx, clientID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "client not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
		}
		client = c
		return nil
	})
	if err := g.Wait(); err != nil {
		if fundErr != nil && dErrors.HasCode(fundErr, dErrors.CodeNotFound) {
			err = fundErr
		}
		return catalogmodels.Fund{}, nil, err
	}
	return fund, client, nil
}

// persistPair writes the mutated client, then the transaction, strictly in
// that order. If the transaction save fails after the client save succeeded,
// the pre-mutation client is written back so storage returns to its prior
// state.
func (s *Service) persistPair(ctx context.Context, before, after *clientmodels.Client, tx journalmodels.Transaction) error {
	if err := s.clients.Save(ctx, after); err != nil {
		s.logger.ErrorContext(ctx, "client persist failed",
			"request_id", requestcontext.RequestID(ctx),
			"client_id", after.ID,
			"transaction_id", tx.ID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist client")
	}

	if err := s.journal.Save(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "transaction persist failed, rolling back client",
			"request_id", requestcontext.RequestID(ctx),
			"client_id", after.ID,
			"transaction_id", tx.ID,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.Rollbacks.Inc()
		}
		if rbErr := s.clients.Save(ctx, before); rbErr != nil {
			// Storage now holds the mutation without its journal record.
			// Nothing more the engine can do besides make the failure loud.
			s.logger.ErrorContext(ctx, "compensating rollback failed",
				"request_id", requestcontext.RequestID(ctx),
				"client_id", after.ID,
				"transaction_id", tx.ID,
				"error", rbErr,
			)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist transaction")
	}
	return nil
}

// recordRejection journals a failed attempt best-effort. A rejected
// subscription moves no money, so a write failure here only loses audit
// detail.
func (s *Service) recordRejection(ctx context.Context, client *clientmodels.Client, fund catalogmodels.Fund, txType journalmodels.Type, reason string) {
	tx := journalmodels.Transaction{
		ID:       id.NewTransactionID(),
		ClientID: client.ID,
		FundID:   fund.ID,
		Type:     txType,
		Status:   journalmodels.StatusFailed,
		Amount:   fund.MinimumAmount,
		Metadata: journalmodels.Metadata{
			BalanceBefore: client.Balance,
			BalanceAfter:  client.Balance,
			ClientName:    client.Name,
			FundName:      fund.Name,
			FailureReason: reason,
		},
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.journal.Save(ctx, tx); err != nil {
		s.logger.WarnContext(ctx, "failed to journal rejection",
			"request_id", requestcontext.RequestID(ctx),
			"client_id", client.ID,
			"fund_id", fund.ID,
			"error", err,
		)
	}
}

// notify dispatches the post-commit notice without blocking the response or
// inheriting the request's cancellation.
func (s *Service) notify(ctx context.Context, client *clientmodels.Client, fund catalogmodels.Fund, tx journalmodels.Transaction) {
	if s.notifier == nil {
		return
	}
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		switch tx.Type {
		case journalmodels.TypeCancellation:
			s.notifier.NotifyCancellation(bgCtx, client, fund, tx)
		default:
			s.notifier.NotifySubscription(bgCtx, client, fund, tx)
		}
	}()
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditp == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditp.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func (s *Service) countSubscribe(result string) {
	if s.metrics != nil {
		s.metrics.CountSubscribe(result)
	}
}

func (s *Service) countCancel(result string) {
	if s.metrics != nil {
		s.metrics.CountCancel(result)
	}
}

func (s *Service) observeSubscribe(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveSubscribe(start)
	}
}

func (s *Service) observeCancel(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCancel(start)
	}
}

func summarize(fund catalogmodels.Fund) FundSummary {
	return FundSummary{
		ID:            fund.ID,
		Name:          fund.Name,
		Category:      fund.Category,
		MinimumAmount: fund.MinimumAmount,
	}
}
