package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/internal/orders"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

// OrderStatus serves the buyer-facing order status poll used by the
// post-checkout return pages.
func OrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}

		order, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PaymentWebhook receives the provider's payment notifications. The payment
// id arrives either as the data.id query parameter or inside the JSON body;
// non-payment topics are acknowledged and ignored.
func PaymentWebhook(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := strings.TrimSpace(r.URL.Query().Get("data.id"))
		topic := strings.TrimSpace(r.URL.Query().Get("type"))
		if topic == "" {
			topic = strings.TrimSpace(r.URL.Query().Get("topic"))
		}

		if paymentID == "" {
			var payload webhookNotification
			if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
				paymentID = strings.TrimSpace(payload.Data.ID)
				if topic == "" {
					topic = strings.TrimSpace(payload.Type)
				}
			}
		}

		if topic != "" && topic != "payment" {
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}
		if paymentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "payment id missing"))
			return
		}

		order, err := svc.ApplyPaymentNotification(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderID(r.Context(), order.ID.String())
			logg.Info(logg.WithField(ctx, "payment_status", order.PaymentStatus.String()), "payments.webhook_applied")
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
