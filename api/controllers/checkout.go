package controllers

import (
	"net/http"

	"github.com/tienditalabs/tiendita-backend/api/middleware"
	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/api/validators"
	"github.com/tienditalabs/tiendita-backend/internal/checkout"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

type createPreferenceRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// CreatePreference turns the visitor's cart into a pending order and returns
// the hosted payment link.
func CreatePreference(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPreferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), middleware.CartTokenFromContext(r.Context()), checkout.CustomerInfo{
			Name:    payload.Name,
			Email:   payload.Email,
			Phone:   payload.Phone,
			Address: payload.Address,
			City:    payload.City,
			State:   payload.State,
			ZipCode: payload.ZipCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderID(r.Context(), result.OrderID.String())
			logg.Info(logg.WithField(ctx, "preference_id", result.PreferenceID), "checkout.preference_created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
