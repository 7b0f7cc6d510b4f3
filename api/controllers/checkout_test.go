package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tienditalabs/tiendita-backend/api/middleware"
	"github.com/tienditalabs/tiendita-backend/internal/checkout"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

type stubCheckoutService struct {
	result   *checkout.Result
	err      error
	cartID   string
	customer checkout.CustomerInfo
}

func (s *stubCheckoutService) Checkout(_ context.Context, cartID string, customer checkout.CustomerInfo) (*checkout.Result, error) {
	s.cartID = cartID
	s.customer = customer
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestCreatePreference(t *testing.T) {
	logg := testLogger()
	token := uuid.NewString()
	orderID := uuid.New()

	body := `{"name":"Ana Gomez","email":"ana@example.com","phone":"11 5555-4444","address":"Calle Falsa 123","city":"CABA","state":"BA","zipCode":"1414"}`

	t.Run("success", func(t *testing.T) {
		svc := &stubCheckoutService{result: &checkout.Result{
			OrderID:      orderID,
			PreferenceID: "pref-1",
			RedirectURL:  "https://pay.example/sandbox",
			Total:        decimal.NewFromInt(6000),
		}}

		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(body))
		req = req.WithContext(middleware.WithCartToken(req.Context(), token))
		rec := httptest.NewRecorder()
		CreatePreference(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.cartID != token {
			t.Fatalf("expected cart token %q, got %q", token, svc.cartID)
		}
		if svc.customer.Name != "Ana Gomez" || svc.customer.City != "CABA" {
			t.Fatalf("unexpected customer %+v", svc.customer)
		}

		var envelope struct {
			Data checkout.Result `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.RedirectURL != "https://pay.example/sandbox" {
			t.Fatalf("unexpected redirect %q", envelope.Data.RedirectURL)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		svc := &stubCheckoutService{}
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(`{"name":"Ana","phone":"11"}`))
		req = req.WithContext(middleware.WithCartToken(req.Context(), token))
		rec := httptest.NewRecorder()
		CreatePreference(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if svc.cartID != "" {
			t.Fatalf("service must not be called on validation failure")
		}
	})

	t.Run("empty cart maps to 400", func(t *testing.T) {
		svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-preference", strings.NewReader(body))
		req = req.WithContext(middleware.WithCartToken(req.Context(), token))
		rec := httptest.NewRecorder()
		CreatePreference(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
