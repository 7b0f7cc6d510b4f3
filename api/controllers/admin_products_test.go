package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tienditalabs/tiendita-backend/internal/catalog"
	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
)

func TestAdminCreateProductAcceptsLegacyFieldNames(t *testing.T) {
	logg := testLogger()

	var captured catalog.CreateProductInput
	svc := &stubCatalogService{
		create: func(_ context.Context, input catalog.CreateProductInput) (*models.Product, error) {
			captured = input
			return &models.Product{ID: uuid.New(), Name: input.Name}, nil
		},
	}

	body := `{"sku":"REM-001","nombre":"Remera negra","descripcion":"Algodon","precio":"1500.50","categoria":"remeras","stock":10,"imagenes":["a.jpg"],"talles":["S","M"],"destacado":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AdminCreateProduct(svc, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Remera negra" || captured.Category != "remeras" {
		t.Fatalf("legacy fields not normalized: %+v", captured)
	}
	if captured.Price.String() != "1500.5" {
		t.Fatalf("unexpected price %s", captured.Price)
	}
	if !captured.IsFeatured || len(captured.Sizes) != 2 {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestAdminUpdateProduct(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	t.Run("partial update", func(t *testing.T) {
		var capturedID uuid.UUID
		var captured catalog.UpdateProductInput
		svc := &stubCatalogService{
			update: func(_ context.Context, id uuid.UUID, input catalog.UpdateProductInput) (*models.Product, error) {
				capturedID = id
				captured = input
				return &models.Product{ID: id}, nil
			},
		}

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/"+productID.String(), strings.NewReader(`{"stock":5}`)), "productId", productID.String())
		rec := httptest.NewRecorder()
		AdminUpdateProduct(svc, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedID != productID {
			t.Fatalf("unexpected id %s", capturedID)
		}
		if captured.Stock == nil || *captured.Stock != 5 {
			t.Fatalf("expected stock pointer 5, got %v", captured.Stock)
		}
		if captured.Name != nil || captured.Price != nil {
			t.Fatalf("untouched fields must stay nil: %+v", captured)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		svc := &stubCatalogService{}
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/"+productID.String(), strings.NewReader(`{"bogus":true}`)), "productId", productID.String())
		rec := httptest.NewRecorder()
		AdminUpdateProduct(svc, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAdminDeleteProduct(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	called := false
	svc := &stubCatalogService{
		delete: func(_ context.Context, id uuid.UUID) error {
			called = true
			if id != productID {
				t.Fatalf("unexpected id %s", id)
			}
			return nil
		},
	}

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/products/"+productID.String(), nil), "productId", productID.String())
	rec := httptest.NewRecorder()
	AdminDeleteProduct(svc, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatalf("expected Delete to be invoked")
	}
}

func TestAdminListProducts(t *testing.T) {
	logg := testLogger()
	svc := &stubCatalogService{
		listAll: func(context.Context) ([]models.Product, error) {
			return []models.Product{{Name: "Remera"}, {Name: "Buzo", IsActive: false}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products/all", nil)
	rec := httptest.NewRecorder()
	AdminListProducts(svc, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Buzo") {
		t.Fatalf("hidden products must be listed for admins: %s", rec.Body.String())
	}
}
