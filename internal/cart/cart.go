// Package cart models the client-owned cart as an explicit state value with
// pure transition functions. The server never persists a cart; the quote
// endpoint only re-derives totals so the client cannot drift from the
// catalog price.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/slopwear/storefront-backend/internal/catalog"
	"github.com/slopwear/storefront-backend/pkg/errors"
)

// Item is one (size, color) selection of the single storefront product.
// The pair is unique within a cart.
type Item struct {
	Size     string `json:"size" validate:"required,oneof=xs s m l xl xxl"`
	Color    string `json:"color" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// Cart is an ordered sequence of items. The zero value is an empty cart.
type Cart struct {
	Items []Item `json:"items" validate:"dive"`
}

// Add increments the quantity of a matching (size, color) item, or appends a
// new item with quantity 1.
func (c Cart) Add(size, color string) Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)

	for i := range items {
		if items[i].Size == size && items[i].Color == color {
			items[i].Quantity++
			return Cart{Items: items}
		}
	}
	return Cart{Items: append(items, Item{Size: size, Color: color, Quantity: 1})}
}

// AdjustQuantity adds delta to the item at index. The item is removed when
// the resulting quantity drops to zero or below.
func (c Cart) AdjustQuantity(index int, delta int) (Cart, error) {
	if index < 0 || index >= len(c.Items) {
		return c, errors.New(errors.CodeValidation, "cart item index out of range")
	}

	items := make([]Item, len(c.Items))
	copy(items, c.Items)

	items[index].Quantity += delta
	if items[index].Quantity <= 0 {
		items = append(items[:index], items[index+1:]...)
	}
	return Cart{Items: items}, nil
}

// Clear returns an empty cart. Used after a successful checkout redirect.
func (c Cart) Clear() Cart {
	return Cart{}
}

// TotalItems is the sum of item quantities.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is unit price times total item count.
func (c Cart) TotalPrice() decimal.Decimal {
	return catalog.UnitPrice().Mul(decimal.NewFromInt(int64(c.TotalItems())))
}
