package checkout

import (
	"fmt"
	"strings"

	"github.com/tienditalabs/tiendita-backend/internal/cart"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	"github.com/tienditalabs/tiendita-backend/pkg/payments"
)

// BuildPreferenceRequest maps the cart and buyer onto the provider's
// preference payload. The order id rides along as external_reference so
// webhooks and polling can find their way back.
func BuildPreferenceRequest(lines []cart.Line, customer CustomerInfo, orderID string, cfg config.PaymentsConfig, storefront config.StorefrontConfig) payments.PreferenceRequest {
	items := make([]payments.PreferenceItem, 0, len(lines))
	for _, line := range lines {
		if !line.Product.UnitPrice.IsPositive() {
			continue
		}
		productID := strings.TrimSpace(line.Product.ProductID)
		if productID == "" {
			productID = cart.SynthesizeProductID()
		}
		item := payments.PreferenceItem{
			ID:         productID,
			Title:      line.Product.Title,
			PictureURL: line.Product.ImageURL,
			Quantity:   line.Quantity,
			CurrencyID: cfg.CurrencyID,
			UnitPrice:  line.Product.UnitPrice,
		}
		if variant := variantLabel(line); variant != "" {
			item.Description = variant
		}
		items = append(items, item)
	}

	name, surname := splitName(customer.Name)
	payer := payments.PreferencePayer{
		Name:    name,
		Surname: surname,
		Email:   strings.TrimSpace(customer.Email),
	}
	if area, number := splitPhone(customer.Phone); number != "" {
		payer.Phone = &payments.PreferencePhone{AreaCode: area, Number: number}
	}

	base := strings.TrimRight(storefront.PublicBaseURL, "/")
	return payments.PreferenceRequest{
		Items: items,
		Payer: payer,
		BackURLs: &payments.BackURLs{
			Success: base + storefront.SuccessPath,
			Failure: base + storefront.FailurePath,
			Pending: base + storefront.PendingPath,
		},
		AutoReturn:        "approved",
		ExternalReference: orderID,
	}
}

func variantLabel(line cart.Line) string {
	switch {
	case line.Size != "" && line.Color != "":
		return fmt.Sprintf("%s / %s", line.Size, line.Color)
	case line.Size != "":
		return line.Size
	case line.Color != "":
		return line.Color
	}
	return ""
}
