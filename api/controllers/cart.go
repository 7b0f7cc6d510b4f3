package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tienditalabs/tiendita-backend/api/middleware"
	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/api/validators"
	"github.com/tienditalabs/tiendita-backend/internal/cart"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

type cartEnvelope struct {
	Cart      *cart.Cart      `json:"cart"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func wrapCart(c *cart.Cart) cartEnvelope {
	return cartEnvelope{Cart: c, Total: c.Total(), ItemCount: c.ItemCount()}
}

// CartFetch returns the visitor's cart.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.Get(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(current))
	}
}

type addCartItemRequest struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Quantity  int             `json:"quantity" validate:"omitempty,min=1"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

// CartAddItem appends a product snapshot to the cart, merging with an
// existing line when product and variant match.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.AddItem(r.Context(), middleware.CartTokenFromContext(r.Context()), cart.AddItemInput{
			ProductID: payload.ProductID,
			Title:     payload.Title,
			UnitPrice: payload.UnitPrice,
			ImageURL:  payload.ImageURL,
			Quantity:  payload.Quantity,
			Size:      payload.Size,
			Color:     payload.Color,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(current))
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartUpdateItem changes a line's quantity.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineId")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.UpdateQuantity(r.Context(), middleware.CartTokenFromContext(r.Context()), lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(current))
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID := chi.URLParam(r, "lineId")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		current, err := svc.RemoveItem(r.Context(), middleware.CartTokenFromContext(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(current))
	}
}

// CartClear drops the whole cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.CartTokenFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
