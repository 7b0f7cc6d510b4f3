package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tienditalabs/tiendita-backend/internal/cart"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	"github.com/tienditalabs/tiendita-backend/pkg/enums"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/payments"
)

type cartReader interface {
	Get(ctx context.Context, cartID string) (*cart.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type preferenceCreator interface {
	CreatePreference(ctx context.Context, req payments.PreferenceRequest) (*payments.Preference, error)
	Environment() string
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	SetPreference(ctx context.Context, orderID uuid.UUID, preferenceID string) error
}

// Result is what the storefront needs to hand the buyer to the provider.
type Result struct {
	OrderID      uuid.UUID       `json:"orderId"`
	PreferenceID string          `json:"preferenceId"`
	RedirectURL  string          `json:"redirectUrl"`
	Total        decimal.Decimal `json:"total"`
}

// Service turns a cart plus buyer details into a provider preference.
type Service interface {
	Checkout(ctx context.Context, cartID string, customer CustomerInfo) (*Result, error)
}

type service struct {
	carts      cartReader
	provider   preferenceCreator
	orders     orderWriter
	payments   config.PaymentsConfig
	storefront config.StorefrontConfig
}

// NewService builds the checkout orchestrator.
func NewService(carts cartReader, provider preferenceCreator, orders orderWriter, paymentsCfg config.PaymentsConfig, storefrontCfg config.StorefrontConfig) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payments provider required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	return &service{
		carts:      carts,
		provider:   provider,
		orders:     orders,
		payments:   paymentsCfg,
		storefront: storefrontCfg,
	}, nil
}

// Checkout validates the buyer, snapshots the cart into a pending order and
// registers the provider preference. The cart is cleared only after the
// provider accepted the preference; any earlier failure leaves it intact so
// the buyer can retry.
func (s *service) Checkout(ctx context.Context, cartID string, customer CustomerInfo) (*Result, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	current, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := buildOrder(current, customer, s.payments.CurrencyID)
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	req := BuildPreferenceRequest(current.Lines, customer, created.ID.String(), s.payments, s.storefront)
	pref, err := s.provider.CreatePreference(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.orders.SetPreference(ctx, created.ID, pref.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach preference")
	}

	if err := s.carts.Clear(ctx, cartID); err != nil {
		return nil, err
	}

	return &Result{
		OrderID:      created.ID,
		PreferenceID: pref.ID,
		RedirectURL:  pref.RedirectURL(s.provider.Environment()),
		Total:        created.Total,
	}, nil
}

func buildOrder(current *cart.Cart, customer CustomerInfo, currency string) *models.Order {
	items := make([]models.OrderItem, 0, len(current.Lines))
	for _, line := range current.Lines {
		item := models.OrderItem{
			ProductID: line.Product.ProductID,
			Title:     line.Product.Title,
			UnitPrice: line.Product.UnitPrice,
			Quantity:  line.Quantity,
		}
		if line.Size != "" {
			item.Size = strPtr(line.Size)
		}
		if line.Color != "" {
			item.Color = strPtr(line.Color)
		}
		if line.Product.ImageURL != "" {
			item.ImageURL = strPtr(line.Product.ImageURL)
		}
		items = append(items, item)
	}

	return &models.Order{
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		ShippingLine1: customer.Address,
		ShippingCity:  customer.City,
		ShippingState: customer.State,
		ShippingZip:   customer.ZipCode,
		Total:         current.Total(),
		Currency:      currency,
		Items:         items,
	}
}

func strPtr(value string) *string {
	return &value
}
