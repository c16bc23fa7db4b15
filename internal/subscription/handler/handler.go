// Package handler wires the subscribe/cancel endpoints over the engine.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fondos/internal/subscription"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/httputil"
	"fondos/pkg/requestcontext"
)

// Engine is the subscription surface the handler needs.
type Engine interface {
	Subscribe(ctx context.Context, clientID id.ClientID, fundID id.FundID) (*subscription.SubscribeResult, error)
	Cancel(ctx context.Context, clientID id.ClientID, fundID id.FundID) (*subscription.CancelResult, error)
}

// Handler serves the subscribe/cancel endpoints. Routes assume the auth
// middleware has placed the caller's ID in the request context.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

// New constructs a subscription handler.
func New(engine Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Register mounts the subscription routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/funds/{fundID}/subscribe", h.HandleSubscribe)
	r.Delete("/funds/{fundID}/subscribe", h.HandleCancel)
}

// HandleSubscribe handles POST /funds/{fundID}/subscribe.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fundID, err := id.ParseFundID(chi.URLParam(r, "fundID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.engine.Subscribe(ctx, requestcontext.ClientID(ctx), fundID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "subscription committed",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", requestcontext.ClientID(ctx),
		"fund_id", fundID,
		"transaction_id", result.TransactionID,
		"amount", result.Amount,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromSubscribeResult(result))
}

// HandleCancel handles DELETE /funds/{fundID}/subscribe.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fundID, err := id.ParseFundID(chi.URLParam(r, "fundID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.engine.Cancel(ctx, requestcontext.ClientID(ctx), fundID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "cancellation committed",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", requestcontext.ClientID(ctx),
		"fund_id", fundID,
		"transaction_id", result.TransactionID,
		"amount_returned", result.Amount,
	)
	httputil.WriteJSON(w, http.StatusOK, fromCancelResult(result))
}
