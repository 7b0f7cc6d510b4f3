package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	"github.com/tienditalabs/tiendita-backend/pkg/pagination"
)

// ListInput captures the storefront browse filters.
type ListInput struct {
	Category   string
	Featured   *bool
	Pagination pagination.Params
}

// ProductPage is one page of products plus the cursor for the next one.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// CreateProductInput is the admin payload for a new catalog entry, already
// normalized to canonical field names.
type CreateProductInput struct {
	SKU            string
	Name           string
	Description    string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Category       string
	Stock          int
	Images         []string
	Sizes          []string
	Colors         []string
	IsFeatured     bool
	IsActive       *bool
}

// UpdateProductInput applies partial updates; nil fields keep their values.
type UpdateProductInput struct {
	SKU            *string
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Category       *string
	Stock          *int
	Images         []string
	Sizes          []string
	Colors         []string
	IsFeatured     *bool
	IsActive       *bool
}
