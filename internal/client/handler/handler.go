// Package handler wires the authenticated client profile endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fondos/internal/client"
	"fondos/internal/client/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/httputil"
	"fondos/pkg/requestcontext"
)

// Service is the client surface the handler needs.
type Service interface {
	Profile(ctx context.Context, clientID id.ClientID) (*models.Client, error)
	UpdateProfile(ctx context.Context, clientID id.ClientID, params client.UpdateParams) (*models.Client, error)
	Balance(ctx context.Context, clientID id.ClientID) (client.BalanceSummary, error)
	Funds(ctx context.Context, clientID id.ClientID) ([]client.HeldFund, error)
}

// Handler serves the /clients/me endpoints. All routes assume the auth
// middleware has placed the caller's ID in the request context.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a client handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the profile routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/clients/me", h.HandleProfile)
	r.Put("/clients/me", h.HandleUpdate)
	r.Get("/clients/me/balance", h.HandleBalance)
	r.Get("/clients/me/funds", h.HandleFunds)
}

// HandleProfile handles GET /clients/me.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.service.Profile(ctx, requestcontext.ClientID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromClient(profile))
}

// HandleUpdate handles PUT /clients/me.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	params := client.UpdateParams{Name: req.Name, Phone: req.Phone}
	if req.Preference != nil {
		pref, err := models.ParseNotificationPreference(*req.Preference)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		params.Preference = &pref
	}

	updated, err := h.service.UpdateProfile(ctx, requestcontext.ClientID(ctx), params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromClient(updated))
}

// HandleBalance handles GET /clients/me/balance.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := h.service.Balance(ctx, requestcontext.ClientID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{
		Balance:       summary.Balance,
		TotalInvested: summary.TotalInvested,
		Patrimony:     summary.Patrimony,
	})
}

// HandleFunds handles GET /clients/me/funds.
func (h *Handler) HandleFunds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	held, err := h.service.Funds(ctx, requestcontext.ClientID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HeldFundListResponse{
		Funds: heldFundResponses(held),
		Count: len(held),
	})
}
