package catalog

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

// legacyProductPayload accepts both the canonical English field names and
// the Spanish spellings used by the original storefront exports. The rest
// of the system only ever sees the canonical shape.
type legacyProductPayload struct {
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Nombre         string           `json:"nombre"`
	Description    string           `json:"description"`
	Descripcion    string           `json:"descripcion"`
	Price          *decimal.Decimal `json:"price"`
	Precio         *decimal.Decimal `json:"precio"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice"`
	Category       string           `json:"category"`
	Categoria      string           `json:"categoria"`
	Stock          *int             `json:"stock"`
	Images         []string         `json:"images"`
	Imagenes       []string         `json:"imagenes"`
	Sizes          []string         `json:"sizes"`
	Talles         []string         `json:"talles"`
	Colors         []string         `json:"colors"`
	Colores        []string         `json:"colores"`
	IsFeatured     bool             `json:"isFeatured"`
	Destacado      bool             `json:"destacado"`
	IsActive       *bool            `json:"isActive"`
}

// NormalizeProductPayload decodes an admin product document, merging legacy
// Spanish field names into the canonical input. English fields win when
// both spellings are present.
func NormalizeProductPayload(data []byte) (CreateProductInput, error) {
	var payload legacyProductPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product payload")
	}

	input := CreateProductInput{
		SKU:            strings.TrimSpace(payload.SKU),
		Name:           firstNonEmpty(payload.Name, payload.Nombre),
		Description:    firstNonEmpty(payload.Description, payload.Descripcion),
		Category:       firstNonEmpty(payload.Category, payload.Categoria),
		CompareAtPrice: payload.CompareAtPrice,
		Images:         firstNonEmptySlice(payload.Images, payload.Imagenes),
		Sizes:          firstNonEmptySlice(payload.Sizes, payload.Talles),
		Colors:         firstNonEmptySlice(payload.Colors, payload.Colores),
		IsFeatured:     payload.IsFeatured || payload.Destacado,
		IsActive:       payload.IsActive,
	}

	switch {
	case payload.Price != nil:
		input.Price = *payload.Price
	case payload.Precio != nil:
		input.Price = *payload.Precio
	}
	if payload.Stock != nil {
		input.Stock = *payload.Stock
	}

	return input, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
