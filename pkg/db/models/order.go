package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tienditalabs/tiendita-backend/pkg/enums"
)

// Order snapshots a checkout at the moment the payment preference was
// created. The payment provider owns the payment lifecycle; we only mirror
// its terminal status via webhook/polling.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'" json:"paymentStatus"`
	PreferenceID  *string             `gorm:"column:preference_id" json:"preferenceId,omitempty"`
	PaymentID     *string             `gorm:"column:payment_id" json:"paymentId,omitempty"`
	CustomerName  string              `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail string              `gorm:"column:customer_email;not null" json:"customerEmail"`
	CustomerPhone string              `gorm:"column:customer_phone;not null" json:"customerPhone"`
	ShippingLine1 string              `gorm:"column:shipping_line1" json:"shippingLine1"`
	ShippingCity  string              `gorm:"column:shipping_city" json:"shippingCity"`
	ShippingState string              `gorm:"column:shipping_state" json:"shippingState"`
	ShippingZip   string              `gorm:"column:shipping_zip" json:"shippingZip"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	Currency      string              `gorm:"column:currency;not null" json:"currency"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// OrderItem is one cart line frozen into the order.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"orderId"`
	ProductID string          `gorm:"column:product_id;not null" json:"productId"`
	Title     string          `gorm:"column:title;not null" json:"title"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Size      *string         `gorm:"column:size" json:"size,omitempty"`
	Color     *string         `gorm:"column:color" json:"color,omitempty"`
	ImageURL  *string         `gorm:"column:image_url" json:"imageUrl,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
