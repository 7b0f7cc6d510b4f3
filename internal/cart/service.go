package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

// Service exposes cart operations keyed by the opaque cart token each
// browser carries.
type Service interface {
	Get(ctx context.Context, cartID string) (*Cart, error)
	AddItem(ctx context.Context, cartID string, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, cartID, lineID string) (*Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type service struct {
	store Store
	now   func() time.Time
}

// NewService builds a cart service backed by the provided store.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{store: store, now: time.Now}, nil
}

// AddItemInput carries the product snapshot and variant selection for a new
// cart line.
type AddItemInput struct {
	ProductID string
	Title     string
	UnitPrice decimal.Decimal
	ImageURL  string
	Quantity  int
	Size      string
	Color     string
}

// Get loads the cart and drops any line that went stale since the last
// visit. A cart emptied by sanitization is also removed from storage.
func (s *service) Get(ctx context.Context, cartID string) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}

	cart, err := s.store.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &Cart{}, nil
	}

	if cart.sanitize() {
		if cart.IsEmpty() {
			if err := s.store.Clear(ctx, cartID); err != nil {
				return nil, err
			}
			return &Cart{}, nil
		}
		cart.UpdatedAt = s.now().UTC()
		if err := s.store.Save(ctx, cartID, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// AddItem appends a line or bumps the quantity of the matching variant.
func (s *service) AddItem(ctx context.Context, cartID string, input AddItemInput) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	if !input.UnitPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	quantity := clampQuantity(input.Quantity)

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	lineID := LineIDFor(productID, input.Size, input.Color)
	if idx := cart.findLine(lineID); idx >= 0 {
		cart.Lines[idx].Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, Line{
			LineID: lineID,
			Product: Snapshot{
				ProductID: productID,
				Title:     strings.TrimSpace(input.Title),
				UnitPrice: input.UnitPrice,
				ImageURL:  strings.TrimSpace(input.ImageURL),
			},
			Quantity: quantity,
			Size:     strings.TrimSpace(input.Size),
			Color:    strings.TrimSpace(input.Color),
			AddedAt:  s.now().UTC(),
		})
	}

	cart.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line's quantity. Values below one clamp to one;
// removal is always an explicit RemoveItem call.
func (s *service) UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := cart.findLine(lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	cart.Lines[idx].Quantity = clampQuantity(quantity)
	cart.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a line. Removing the last line clears the persisted cart
// entirely instead of storing an empty document.
func (s *service) RemoveItem(ctx context.Context, cartID, lineID string) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := cart.findLine(lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	if cart.IsEmpty() {
		if err := s.store.Clear(ctx, cartID); err != nil {
			return nil, err
		}
		return &Cart{}, nil
	}

	cart.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, cartID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear removes the cart from storage.
func (s *service) Clear(ctx context.Context, cartID string) error {
	if err := validateCartID(cartID); err != nil {
		return err
	}
	return s.store.Clear(ctx, cartID)
}

func validateCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return nil
}

func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}
