package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog entry. Legacy field spellings from the
// old storefront data (precio/nombre) are normalized before rows are
// created; the database only ever sees this shape.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU            string           `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Name           string           `gorm:"column:name;not null" json:"name"`
	Description    string           `gorm:"column:description;not null" json:"description"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)" json:"compareAtPrice,omitempty"`
	Category       string           `gorm:"column:category;not null" json:"category"`
	Stock          int              `gorm:"column:stock;not null;default:0" json:"stock"`
	Images         pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]" json:"images"`
	Sizes          pq.StringArray   `gorm:"column:sizes;type:text[]" json:"sizes,omitempty"`
	Colors         pq.StringArray   `gorm:"column:colors;type:text[]" json:"colors,omitempty"`
	IsFeatured     bool             `gorm:"column:is_featured;not null;default:false" json:"isFeatured"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
