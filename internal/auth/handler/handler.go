// Package handler wires the registration and login endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fondos/internal/auth"
	"fondos/internal/client/models"
	"fondos/pkg/platform/httputil"
	"fondos/pkg/requestcontext"
)

// Service is the auth surface the handler needs.
type Service interface {
	Register(ctx context.Context, params auth.RegisterParams) (*auth.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*auth.RegisterResult, error)
}

// Handler serves the public /auth endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
}

// AuthResponse is the wire form of a successful register or login.
type AuthResponse struct {
	Token  string        `json:"token"`
	Client ClientSummary `json:"client"`
}

// ClientSummary is the identity slice returned with a token.
type ClientSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Balance    int64     `json:"balance"`
	Preference string    `json:"notification_preference"`
	CreatedAt  time.Time `json:"created_at"`
}

// HandleRegister handles POST /auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	preference, err := models.ParseNotificationPreference(req.Preference)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Register(ctx, auth.RegisterParams{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Preference: preference,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAuthResponse(result))
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result *auth.RegisterResult) AuthResponse {
	return AuthResponse{
		Token: result.Token,
		Client: ClientSummary{
			ID:         result.Client.ID.String(),
			Name:       result.Client.Name,
			Email:      result.Client.Email,
			Balance:    result.Client.Balance,
			Preference: string(result.Client.Preference),
			CreatedAt:  result.Client.CreatedAt,
		},
	}
}
