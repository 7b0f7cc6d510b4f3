package catalog

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/pagination"
)

// CachedService serves the public read paths from the snapshot cache and
// falls through to the inner service while the snapshot is still warming up.
// Admin writes go straight through and trigger a refresh so the storefront
// never shows a stale grid for longer than one request.
type CachedService struct {
	Service
	cache *Cache
}

// NewCachedService wraps a catalog service with the snapshot read path.
func NewCachedService(inner Service, cache *Cache) (*CachedService, error) {
	if inner == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if cache == nil {
		return nil, fmt.Errorf("snapshot cache required")
	}
	return &CachedService{Service: inner, cache: cache}, nil
}

// ListActive pages through the snapshot with the same ordering and cursor
// semantics as the repository query.
func (s *CachedService) ListActive(ctx context.Context, input ListInput) (*ProductPage, error) {
	snap := s.cache.Snapshot()
	if !snap.Loaded {
		return s.Service.ListActive(ctx, input)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	matches := make([]models.Product, 0, len(snap.Products))
	for _, product := range snap.Products {
		if input.Category != "" && product.Category != input.Category {
			continue
		}
		if input.Featured != nil && product.IsFeatured != *input.Featured {
			continue
		}
		if cursor != nil && !beforeCursor(product, cursor) {
			continue
		}
		matches = append(matches, product)
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	page := &ProductPage{Items: matches}
	if len(matches) > limit {
		page.Items = matches[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// Categories derives the distinct category labels from the snapshot.
func (s *CachedService) Categories(ctx context.Context) ([]string, error) {
	snap := s.cache.Snapshot()
	if !snap.Loaded {
		return s.Service.Categories(ctx)
	}

	seen := make(map[string]struct{}, len(snap.Products))
	categories := make([]string, 0, len(snap.Products))
	for _, product := range snap.Products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Create persists the product and refreshes the snapshot.
func (s *CachedService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	created, err := s.Service.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return created, nil
}

// Update persists the changes and refreshes the snapshot.
func (s *CachedService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	updated, err := s.Service.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return updated, nil
}

// Delete removes the product and refreshes the snapshot.
func (s *CachedService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Service.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

func (s *CachedService) refresh(ctx context.Context) {
	// The write already succeeded. A failed refresh keeps the previous
	// snapshot and the background refresher catches up on its next tick.
	_ = s.cache.Refresh(ctx)
}

// beforeCursor mirrors the repository's (created_at, id) tuple comparison.
func beforeCursor(product models.Product, cursor *pagination.Cursor) bool {
	if product.CreatedAt.Before(cursor.CreatedAt) {
		return true
	}
	if !product.CreatedAt.Equal(cursor.CreatedAt) {
		return false
	}
	return bytes.Compare(product.ID[:], cursor.ID[:]) < 0
}
