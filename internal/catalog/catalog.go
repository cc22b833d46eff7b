// Package catalog exposes the static product catalog. Prices are provisioned
// in the payment provider's dashboard out of band; this package only mirrors
// the references so the API and checkout flow agree on them.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/slopwear/storefront-backend/pkg/errors"
)

// CheckoutMode selects one-time payment vs recurring billing for a product.
type CheckoutMode string

const (
	ModePayment      CheckoutMode = "payment"
	ModeSubscription CheckoutMode = "subscription"
)

// Product is a single catalog row. ID and PriceID reference objects that
// already exist in the payment provider.
type Product struct {
	ID          string          `json:"id"`
	PriceID     string          `json:"price_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Mode        CheckoutMode    `json:"mode"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
}

var products = []Product{
	{
		ID:          "prod_Sbh9YkL7PeS0kd",
		PriceID:     "price_1RgTl100QL3l2eWUTfMpkxVy",
		Name:        "t-shirt",
		Description: "AI Generated T-Shirt",
		Mode:        ModePayment,
		UnitPrice:   decimal.NewFromInt(20),
		Currency:    "usd",
	},
}

// All returns the catalog. Callers must not mutate the returned slice.
func All() []Product {
	return products
}

// ByPriceID resolves a product by its provider price reference.
func ByPriceID(priceID string) (Product, error) {
	for _, p := range products {
		if p.PriceID == priceID {
			return p, nil
		}
	}
	return Product{}, errors.New(errors.CodeNotFound, "unknown price reference")
}

// UnitPrice returns the price of the single storefront product. Cart totals
// are derived from this, never stored.
func UnitPrice() decimal.Decimal {
	return products[0].UnitPrice
}
