package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"fondos/internal/auth"
	catalogmodels "fondos/internal/catalog/models"
	catalogstore "fondos/internal/catalog/store"
	clientmodels "fondos/internal/client/models"
	clientstore "fondos/internal/client/store"
	journalstore "fondos/internal/journal/store"
	"fondos/internal/platform/middleware"
	"fondos/internal/subscription"
	id "fondos/pkg/domain"
)

// The router here mirrors production wiring: auth middleware in front of the
// subscribe/cancel routes, engine on in-memory stores behind them.
func newTestRouter(t *testing.T) (http.Handler, string, catalogmodels.Fund) {
	t.Helper()

	funds := catalogstore.NewInMemory()
	clients := clientstore.NewInMemory()
	journal := journalstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	fund := catalogmodels.Fund{
		ID:            id.NewFundID(),
		Name:          "FPV_BTG_PACTUAL_RECAUDADORA",
		MinimumAmount: 75_000,
		Category:      catalogmodels.CategoryFPV,
		Active:        true,
		CreatedAt:     now,
	}
	if err := funds.CreateIfNameAvailable(context.Background(), fund); err != nil {
		t.Fatal(err)
	}

	client := &clientmodels.Client{
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
	if err := clients.Create(context.Background(), client); err != nil {
		t.Fatal(err)
	}

	tokens := auth.NewTokenIssuer("test-signing-key", time.Hour)
	// Token validity is checked against the wall clock, so the token is
	// issued from it; the fixture time only pins entity timestamps.
	token, err := tokens.Issue(client.ID, client.Email, client.Name, string(client.Role), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	engine := subscription.New(funds, clients, journal, logger)
	h := New(engine, logger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, logger))
		h.Register(r)
	})
	return r, token, fund
}

func TestSubscribeRequiresToken(t *testing.T) {
	router, _, fund := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/funds/"+fund.ID.String()+"/subscribe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestSubscribeAndCancelRoundTrip(t *testing.T) {
	router, token, fund := newTestRouter(t)
	path := "/funds/" + fund.ID.String() + "/subscribe"

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 subscribing, got %d: %s", rec.Code, rec.Body.String())
	}

	var sub SubscribeResponse
	if err := json.NewDecoder(rec.Body).Decode(&sub); err != nil {
		t.Fatalf("failed to decode subscribe response: %v", err)
	}
	if sub.Type != "subscription" || sub.Amount != 75_000 {
		t.Fatalf("unexpected subscribe payload: %+v", sub)
	}
	if sub.BalanceBefore != 500_000 || sub.BalanceAfter != 425_000 {
		t.Fatalf("unexpected balances: %+v", sub)
	}
	if sub.Fund.Name != fund.Name {
		t.Fatalf("expected fund name %q, got %q", fund.Name, sub.Fund.Name)
	}

	cancelReq := httptest.NewRequest(http.MethodDelete, path, nil)
	cancelReq.Header.Set("Authorization", "Bearer "+token)
	cancelRec := httptest.NewRecorder()
	router.ServeHTTP(cancelRec, cancelReq)
	if cancelRec.Code != http.StatusOK {
		t.Fatalf("expected 200 cancelling, got %d: %s", cancelRec.Code, cancelRec.Body.String())
	}

	var cancel CancelResponse
	if err := json.NewDecoder(cancelRec.Body).Decode(&cancel); err != nil {
		t.Fatalf("failed to decode cancel response: %v", err)
	}
	if cancel.AmountReturned != 75_000 || cancel.BalanceAfter != 500_000 {
		t.Fatalf("unexpected cancel payload: %+v", cancel)
	}
	if !cancel.SubscribedAt.Equal(sub.Timestamp) {
		t.Fatalf("expected original subscription timestamp, got %s", cancel.SubscribedAt)
	}
}

func TestSubscribeConflictBody(t *testing.T) {
	router, token, fund := newTestRouter(t)
	path := "/funds/" + fund.ID.String() + "/subscribe"

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("call %d: expected %d, got %d", i, want, rec.Code)
		}
		if want == http.StatusConflict {
			var body struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error != "conflict" {
				t.Fatalf("expected conflict error code, got %q", body.Error)
			}
		}
	}
}

func TestSubscribeMalformedFundID(t *testing.T) {
	router, token, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/funds/not-a-uuid/subscribe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed fund id, got %d", rec.Code)
	}
}
