package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProductsMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no product migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"price NUMERIC(12,2) NOT NULL CHECK (price > 0)",
		"images TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[]",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku",
		"CREATE INDEX IF NOT EXISTS idx_products_category_is_active",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at_id",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
