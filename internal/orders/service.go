package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	"github.com/tienditalabs/tiendita-backend/pkg/enums"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/payments"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdatePayment(ctx context.Context, orderID uuid.UUID, paymentID string, paymentStatus enums.PaymentStatus, orderStatus enums.OrderStatus) error
}

type paymentFetcher interface {
	GetPayment(ctx context.Context, paymentID string) (*payments.Payment, error)
}

// Service exposes order status reads plus the provider notification path.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ApplyPaymentNotification(ctx context.Context, paymentID string) (*models.Order, error)
}

type service struct {
	repo     orderRepository
	provider paymentFetcher
}

// NewService builds the orders service.
func NewService(repo orderRepository, provider paymentFetcher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payments provider required")
	}
	return &service{repo: repo, provider: provider}, nil
}

// GetByID returns the stored order. When a payment id is already attached
// and the order still looks pending, the provider is polled so buyers
// returning from the hosted page see the settled state without waiting for
// the webhook.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.PaymentID != nil && order.PaymentStatus == enums.PaymentStatusPending {
		refreshed, pollErr := s.refreshFromProvider(ctx, order, *order.PaymentID)
		if pollErr == nil {
			return refreshed, nil
		}
		// Stale-but-stored beats failing the read when the provider flakes.
	}

	return order, nil
}

// ApplyPaymentNotification resolves a provider payment id back to an order
// and records the new payment state. Used by both webhooks and the
// return-URL confirmation.
func (s *service) ApplyPaymentNotification(ctx context.Context, paymentID string) (*models.Order, error) {
	trimmed := strings.TrimSpace(paymentID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	payment, err := s.provider.GetPayment(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment has no usable order reference")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	return s.applyPayment(ctx, order, payment)
}

func (s *service) refreshFromProvider(ctx context.Context, order *models.Order, paymentID string) (*models.Order, error) {
	payment, err := s.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return s.applyPayment(ctx, order, payment)
}

func (s *service) applyPayment(ctx context.Context, order *models.Order, payment *payments.Payment) (*models.Order, error) {
	paymentStatus, err := enums.ParsePaymentStatus(payment.Status)
	if err != nil {
		// Unknown provider statuses stay pending rather than guessing.
		paymentStatus = enums.PaymentStatusPending
	}
	orderStatus := paymentStatus.OrderStatusFor()

	if err := s.repo.UpdatePayment(ctx, order.ID, payment.ID.String(), paymentStatus, orderStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment")
	}

	paymentID := payment.ID.String()
	order.PaymentID = &paymentID
	order.PaymentStatus = paymentStatus
	order.Status = orderStatus
	return order, nil
}
