package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tienditalabs/tiendita-backend/pkg/db"
	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/pagination"
)

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, input ListInput, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes the catalog read paths plus the admin CRUD surface.
type Service interface {
	ListActive(ctx context.Context, input ListInput) (*ProductPage, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo productRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ListActive returns one storefront page of visible products.
func (s *service) ListActive(ctx context.Context, input ListInput) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	products, err := s.repo.ListActive(ctx, input, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPage{Items: products}
	if len(products) > limit {
		page.Items = products[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// ListAll returns the admin view of the full catalog.
func (s *service) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all products")
	}
	return products, nil
}

// GetByID fetches one product or not-found.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// Categories lists the distinct categories visible on the storefront.
func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

// Create validates and persists a new catalog entry.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		SKU:            strings.TrimSpace(input.SKU),
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		Category:       strings.TrimSpace(input.Category),
		Stock:          input.Stock,
		Images:         pq.StringArray(input.Images),
		Sizes:          pq.StringArray(input.Sizes),
		Colors:         pq.StringArray(input.Colors),
		IsFeatured:     input.IsFeatured,
		IsActive:       isActive,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// Update applies the non-nil fields and persists the result.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = input.CompareAtPrice
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Images != nil {
		product.Images = pq.StringArray(input.Images)
	}
	if input.Sizes != nil {
		product.Sizes = pq.StringArray(input.Sizes)
	}
	if input.Colors != nil {
		product.Colors = pq.StringArray(input.Colors)
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

// Delete removes the product after confirming it exists.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func validateCreate(input CreateProductInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case strings.TrimSpace(input.Description) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	case !input.Price.IsPositive():
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	case strings.TrimSpace(input.SKU) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	case strings.TrimSpace(input.Category) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	case input.Stock < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	case len(input.Images) == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	if input.CompareAtPrice != nil && !input.CompareAtPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "compare-at price must be positive")
	}
	return nil
}

func validateProduct(product *models.Product) error {
	return validateCreate(CreateProductInput{
		SKU:            product.SKU,
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		Category:       product.Category,
		Stock:          product.Stock,
		Images:         []string(product.Images),
	})
}
