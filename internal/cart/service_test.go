package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func sampleItem() AddItemInput {
	return AddItemInput{
		ProductID: "prod-1",
		Title:     "Remera negra",
		UnitPrice: decimal.NewFromInt(100),
		Quantity:  1,
	}
}

func TestAddItemTwiceMergesQuantity(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "cart-1", sampleItem()); err != nil {
		t.Fatalf("first add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "cart-1", sampleItem())
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart.Lines[0].Quantity)
	}
	if !cart.Total().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected total 200, got %s", cart.Total())
	}
	if cart.ItemCount() != 2 {
		t.Fatalf("expected item count 2, got %d", cart.ItemCount())
	}
}

func TestVariantsProduceSeparateLines(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	small := sampleItem()
	small.Size = "S"
	large := sampleItem()
	large.Size = "L"

	if _, err := svc.AddItem(ctx, "cart-1", small); err != nil {
		t.Fatalf("add small: %v", err)
	}
	cart, err := svc.AddItem(ctx, "cart-1", large)
	if err != nil {
		t.Fatalf("add large: %v", err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("expected two variant lines, got %d", len(cart.Lines))
	}
}

func TestQuantityClampsToOne(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	item := sampleItem()
	item.Quantity = 0
	cart, err := svc.AddItem(ctx, "cart-1", item)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if cart.Lines[0].Quantity != 1 {
		t.Fatalf("expected add to clamp to 1, got %d", cart.Lines[0].Quantity)
	}

	cart, err = svc.UpdateQuantity(ctx, "cart-1", cart.Lines[0].LineID, -5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.Lines[0].Quantity != 1 {
		t.Fatalf("expected update to clamp to 1, got %d", cart.Lines[0].Quantity)
	}
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.UpdateQuantity(context.Background(), "cart-1", "missing|", 3)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveLastLineClearsStorage(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddItem(ctx, "cart-1", sampleItem())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one persisted cart, got %d", store.Len())
	}

	cart, err := svc.RemoveItem(ctx, "cart-1", added.Lines[0].LineID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart after removal")
	}
	if store.Len() != 0 {
		t.Fatalf("expected storage cleared, still holds %d carts", store.Len())
	}
}

func TestGetDropsStaleLines(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	stale := &Cart{Lines: []Line{
		{
			LineID:   LineIDFor("prod-1", "", ""),
			Product:  Snapshot{ProductID: "prod-1", Title: "Vale", UnitPrice: decimal.NewFromInt(100)},
			Quantity: 1,
		},
		{
			LineID:   LineIDFor("prod-2", "", ""),
			Product:  Snapshot{ProductID: "prod-2", Title: "Gratis", UnitPrice: decimal.Zero},
			Quantity: 1,
		},
		{
			LineID:   LineIDFor("", "", ""),
			Product:  Snapshot{Title: "Sin id", UnitPrice: decimal.NewFromInt(50)},
			Quantity: 1,
		},
	}}
	if err := store.Save(ctx, "cart-1", stale); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	cart, err := svc.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected a single surviving line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Product.ProductID != "prod-1" {
		t.Fatalf("wrong line survived: %+v", cart.Lines[0])
	}
}

func TestGetClearsStorageWhenAllLinesStale(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)
	ctx := context.Background()

	stale := &Cart{Lines: []Line{{
		LineID:   LineIDFor("prod-1", "", ""),
		Product:  Snapshot{ProductID: "prod-1", Title: "Gratis", UnitPrice: decimal.Zero},
		Quantity: 2,
	}}}
	if err := store.Save(ctx, "cart-1", stale); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	cart, err := svc.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart")
	}
	if store.Len() != 0 {
		t.Fatalf("expected storage cleared, still holds %d carts", store.Len())
	}
}

func TestAddItemRejectsMissingProductID(t *testing.T) {
	t.Parallel()
	svc, store := newTestService(t)

	item := sampleItem()
	item.ProductID = "  "
	_, err := svc.AddItem(context.Background(), "cart-1", item)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing product id, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("rejected add must not persist anything")
	}
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	item := sampleItem()
	item.Title = " "
	_, err := svc.AddItem(ctx, "cart-1", item)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}

	item = sampleItem()
	item.UnitPrice = decimal.Zero
	_, err = svc.AddItem(ctx, "cart-1", item)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}

	_, err = svc.AddItem(ctx, "  ", sampleItem())
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing cart id, got %v", err)
	}
}
