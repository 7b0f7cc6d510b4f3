package controllers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/api/validators"
	"github.com/tienditalabs/tiendita-backend/internal/catalog"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

const maxProductBodyBytes = 1 << 20

// AdminListProducts returns the full catalog including hidden products.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": products})
	}
}

// AdminCreateProduct accepts the panel's product document. Legacy exports
// still arrive with Spanish field names, so the raw body goes through the
// normalizer instead of a strict decoder.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxProductBodyBytes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}

		input, err := catalog.NormalizeProductPayload(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	SKU            *string          `json:"sku,omitempty"`
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Stock          *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Images         []string         `json:"images,omitempty"`
	Sizes          []string         `json:"sizes,omitempty"`
	Colors         []string         `json:"colors,omitempty"`
	IsFeatured     *bool            `json:"isFeatured,omitempty"`
	IsActive       *bool            `json:"isActive,omitempty"`
}

// AdminUpdateProduct applies a partial update; omitted fields keep their
// stored values.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, catalog.UpdateProductInput{
			SKU:            payload.SKU,
			Name:           payload.Name,
			Description:    payload.Description,
			Price:          payload.Price,
			CompareAtPrice: payload.CompareAtPrice,
			Category:       payload.Category,
			Stock:          payload.Stock,
			Images:         payload.Images,
			Sizes:          payload.Sizes,
			Colors:         payload.Colors,
			IsFeatured:     payload.IsFeatured,
			IsActive:       payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes the product from the catalog.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
