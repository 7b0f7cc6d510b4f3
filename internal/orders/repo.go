package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	"github.com/tienditalabs/tiendita-backend/pkg/enums"
)

// Repository persists orders and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads the order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// SetPreference records the provider preference id on the order.
func (r *Repository) SetPreference(ctx context.Context, orderID uuid.UUID, preferenceID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("preference_id", preferenceID).Error
}

// UpdatePayment records the provider payment id and the derived statuses.
func (r *Repository) UpdatePayment(ctx context.Context, orderID uuid.UUID, paymentID string, paymentStatus enums.PaymentStatus, orderStatus enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_id":     paymentID,
			"payment_status": paymentStatus,
			"status":         orderStatus,
		}).Error
}
