// Package handler wires the fund catalog endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fondos/internal/catalog/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/httputil"
	"fondos/pkg/requestcontext"
)

// Service is the catalog surface the handler needs.
type Service interface {
	Get(ctx context.Context, fundID id.FundID) (models.Fund, error)
	List(ctx context.Context) ([]models.Fund, error)
	Deactivate(ctx context.Context, fundID id.FundID) error
}

// Handler serves the fund catalog endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a catalog handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public catalog routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/funds", h.HandleList)
	r.Get("/funds/{fundID}", h.HandleGet)
}

// RegisterAdmin mounts the administrative routes. The caller wraps them in
// auth + admin middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Delete("/funds/{fundID}", h.HandleDeactivate)
}

// HandleList handles GET /funds.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	funds, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list funds",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FundListResponse{
		Funds: fundResponses(funds),
		Count: len(funds),
	})
}

// HandleGet handles GET /funds/{fundID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	fundID, err := id.ParseFundID(chi.URLParam(r, "fundID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	fund, err := h.service.Get(r.Context(), fundID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromFund(fund))
}

// HandleDeactivate handles DELETE /funds/{fundID} (admin).
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fundID, err := id.ParseFundID(chi.URLParam(r, "fundID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Deactivate(ctx, fundID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "fund deactivated",
		"request_id", requestcontext.RequestID(ctx),
		"fund_id", fundID,
		"by", requestcontext.ClientID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}
