package newsletter

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/tienditalabs/tiendita-backend/pkg/db"
	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

type subscriberWriter interface {
	Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error
}

// Service records newsletter signups.
type Service interface {
	Subscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
}

type service struct {
	repo subscriberWriter
}

// NewService builds the newsletter service.
func NewService(repo subscriberWriter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriber repository required")
	}
	return &service{repo: repo}, nil
}

// Subscribe normalizes and stores the email. Re-subscribing the same address
// surfaces a conflict so the storefront can tell the visitor they are
// already on the list.
func (s *service) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}

	subscriber := &models.NewsletterSubscriber{Email: normalized}
	if err := s.repo.Create(ctx, subscriber); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already subscribed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist subscriber")
	}
	return subscriber, nil
}

// Repository persists newsletter subscribers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the subscriber.
func (r *Repository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}
