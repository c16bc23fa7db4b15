// Package handler wires the transaction history endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fondos/internal/journal/models"
	"fondos/internal/journal/store"
	id "fondos/pkg/domain"
	dErrors "fondos/pkg/domain-errors"
	"fondos/pkg/platform/httputil"
	"fondos/pkg/requestcontext"
)

// Service is the journal surface the handler needs.
type Service interface {
	Get(ctx context.Context, txID id.TransactionID) (models.Transaction, error)
	History(ctx context.Context, clientID id.ClientID, filter store.ListFilter) (store.Page, error)
	ListAll(ctx context.Context, filter store.ListFilter) (store.Page, error)
}

// Handler serves the transaction history endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a journal handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the authenticated history routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/transactions/client/me", h.HandleHistory)
	r.Get("/transactions/{transactionID}", h.HandleGet)
}

// RegisterAdmin mounts the cross-client listing. The caller wraps it in
// auth + admin middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/transactions", h.HandleListAll)
}

// HandleGet handles GET /transactions/{transactionID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	txID, err := id.ParseTransactionID(chi.URLParam(r, "transactionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tx, err := h.service.Get(r.Context(), txID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromTransaction(tx))
}

// HandleHistory handles GET /transactions/client/me.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.History(ctx, requestcontext.ClientID(ctx), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writePage(w, page, filter)
}

// HandleListAll handles GET /transactions (admin).
func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writePage(w, page, filter)
}

func writePage(w http.ResponseWriter, page store.Page, filter store.ListFilter) {
	httputil.WriteJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: transactionResponses(page.Transactions),
		Total:        page.Total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

// parseFilter reads the type/status/limit/offset query parameters.
func parseFilter(r *http.Request) (store.ListFilter, error) {
	var filter store.ListFilter
	q := r.URL.Query()

	if raw := q.Get("type"); raw != "" {
		t, err := models.ParseType(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Type = t
	}
	if raw := q.Get("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return store.ListFilter{}, err
		}
		filter.Status = st
	}
	var err error
	if filter.Limit, err = parseIntParam(q.Get("limit")); err != nil {
		return store.ListFilter{}, err
	}
	if filter.Offset, err = parseIntParam(q.Get("offset")); err != nil {
		return store.ListFilter{}, err
	}
	return filter, nil
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "limit and offset must be non-negative integers")
	}
	return n, nil
}
