package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	"github.com/tienditalabs/tiendita-backend/pkg/enums"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

type stubOrdersService struct {
	order      *models.Order
	err        error
	appliedIDs []string
}

func (s *stubOrdersService) GetByID(context.Context, uuid.UUID) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrdersService) ApplyPaymentNotification(_ context.Context, paymentID string) (*models.Order, error) {
	s.appliedIDs = append(s.appliedIDs, paymentID)
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func TestOrderStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := &stubOrdersService{order: &models.Order{ID: orderID, Status: enums.OrderStatusPaid}}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/payments/order/"+orderID.String(), nil), "orderId", orderID.String())
		rec := httptest.NewRecorder()
		OrderStatus(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &stubOrdersService{}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/payments/order/nope", nil), "orderId", "nope")
		rec := httptest.NewRecorder()
		OrderStatus(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/payments/order/"+orderID.String(), nil), "orderId", orderID.String())
		rec := httptest.NewRecorder()
		OrderStatus(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestPaymentWebhook(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("query parameters", func(t *testing.T) {
		svc := &stubOrdersService{order: &models.Order{ID: orderID, PaymentStatus: enums.PaymentStatusApproved}}
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook?type=payment&data.id=123456", nil)
		rec := httptest.NewRecorder()
		PaymentWebhook(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(svc.appliedIDs) != 1 || svc.appliedIDs[0] != "123456" {
			t.Fatalf("unexpected applied ids %v", svc.appliedIDs)
		}
	})

	t.Run("json body", func(t *testing.T) {
		svc := &stubOrdersService{order: &models.Order{ID: orderID, PaymentStatus: enums.PaymentStatusApproved}}
		body := `{"type":"payment","data":{"id":"789"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()
		PaymentWebhook(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(svc.appliedIDs) != 1 || svc.appliedIDs[0] != "789" {
			t.Fatalf("unexpected applied ids %v", svc.appliedIDs)
		}
	})

	t.Run("non payment topic is acknowledged", func(t *testing.T) {
		svc := &stubOrdersService{}
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook?type=merchant_order&data.id=55", nil)
		rec := httptest.NewRecorder()
		PaymentWebhook(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(svc.appliedIDs) != 0 {
			t.Fatalf("non payment topics must not be applied, got %v", svc.appliedIDs)
		}
	})

	t.Run("missing payment id", func(t *testing.T) {
		svc := &stubOrdersService{}
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		PaymentWebhook(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
