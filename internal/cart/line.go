package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot freezes the product data a line was added with. Prices shown in
// the cart never drift under the buyer even if the catalog changes.
type Snapshot struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// Line is one cart entry. Lines are keyed by product plus variant, so the
// same product in two sizes produces two lines.
type Line struct {
	LineID   string    `json:"lineId"`
	Product  Snapshot  `json:"product"`
	Quantity int       `json:"quantity"`
	Size     string    `json:"size,omitempty"`
	Color    string    `json:"color,omitempty"`
	AddedAt  time.Time `json:"addedAt"`
}

// Cart is the persisted shape. Zero lines means the cart does not exist in
// storage.
type Cart struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LineIDFor derives the stable line key for a product/variant combination.
func LineIDFor(productID, size, color string) string {
	return fmt.Sprintf("%s|%s|%s", strings.TrimSpace(productID), strings.TrimSpace(size), strings.TrimSpace(color))
}

// SynthesizeProductID backfills a temporary identifier for lines that reach
// checkout mapping without one.
func SynthesizeProductID() string {
	return "tmp-" + uuid.NewString()
}

// Total sums quantity times unit price across all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, line := range c.Lines {
		total = total.Add(line.Product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount sums the quantities across all lines.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

func (c *Cart) findLine(lineID string) int {
	if c == nil {
		return -1
	}
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}

// sanitize drops lines that can no longer be trusted: missing product ids
// and non-positive prices. Returns true when anything was removed.
func (c *Cart) sanitize() bool {
	if c == nil {
		return false
	}
	kept := c.Lines[:0]
	changed := false
	for _, line := range c.Lines {
		if strings.TrimSpace(line.Product.ProductID) == "" || !line.Product.UnitPrice.IsPositive() {
			changed = true
			continue
		}
		if line.Quantity < 1 {
			line.Quantity = 1
			changed = true
		}
		kept = append(kept, line)
	}
	c.Lines = kept
	return changed
}
