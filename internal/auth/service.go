// Package auth registers clients and issues the access tokens the rest of
// the API authenticates with.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fondos/internal/client/models"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/audit"
	"fondos/pkg/platform/sentinel"
	"fondos/pkg/requestcontext"
)

// ClientStore is the ledger surface registration and login need.
type ClientStore interface {
	Create(ctx context.Context, client *models.Client) error
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
}

// WelcomeNotifier greets newly registered clients. Best-effort.
type WelcomeNotifier interface {
	NotifyWelcome(ctx context.Context, client *models.Client)
}

// Service handles registration and login.
type Service struct {
	store          ClientStore
	tokens         *TokenIssuer
	initialBalance int64
	notifier       WelcomeNotifier
	auditp         audit.Publisher
	logger         *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithWelcomeNotifier wires the post-registration greeting.
func WithWelcomeNotifier(n WelcomeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAuditPublisher wires the audit sink for identity events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.auditp = p }
}

// New constructs an auth service. initialBalance is granted to every new
// client in COP.
func New(store ClientStore, tokens *TokenIssuer, initialBalance int64, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:          store,
		tokens:         tokens,
		initialBalance: initialBalance,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RegisterParams carries a registration request.
type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Preference models.NotificationPreference
}

// RegisterResult is a created client plus its first access token.
type RegisterResult struct {
	Client *models.Client
	Token  string
}

// Register creates a client with the starting balance and returns it with an
// access token. Email uniqueness is enforced by the store.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	if err := validateRegistration(params); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, dErrors.New(dErrors.CodeValidation, "password must be at most 72 bytes")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	client := &models.Client{
		ID:           id.NewClientID(),
		Name:         strings.TrimSpace(params.Name),
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(params.Phone),
		Balance:      s.initialBalance,
		Preference:   params.Preference,
		Active:       true,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, client); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create client")
	}

	token, err := s.tokens.Issue(client.ID, client.Email, client.Name, string(client.Role), now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "client registered",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", client.ID,
	)
	s.emitAudit(ctx, audit.Event{Action: audit.ActionClientRegistered, ClientID: client.ID})

	if s.notifier != nil {
		bgCtx := context.WithoutCancel(ctx)
		welcomed := client.Clone()
		go s.notifier.NotifyWelcome(bgCtx, welcomed)
	}

	return &RegisterResult{Client: client, Token: token}, nil
}

// Login verifies credentials and issues an access token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*RegisterResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	client, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	if !client.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "client account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(client.ID, client.Email, client.Name, string(client.Role), requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emitAudit(ctx, audit.Event{Action: audit.ActionClientLoggedIn, ClientID: client.ID})
	return &RegisterResult{Client: client, Token: token}, nil
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

func validateRegistration(params RegisterParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(params.Email)); err != nil {
		return dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(params.Password) < 8 {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if params.Preference == models.NotifyBySMS && strings.TrimSpace(params.Phone) == "" {
		return dErrors.New(dErrors.CodeValidation, "phone is required for sms notifications")
	}
	return nil
}
