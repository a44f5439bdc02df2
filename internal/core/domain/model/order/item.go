package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Item is a single order line: a product, a positive quantity, and a
// fixed-point unit price. Item is an immutable value object; the containing
// Order derives its total from its items at construction.
type Item struct {
	productID string
	quantity  int
	unitPrice kernel.Money
}

// NewItem creates a validated order line.
// The product ID must be non-empty and the quantity positive; a non-negative
// unit price is already guaranteed by the Money type.
func NewItem(productID string, quantity int, unitPrice kernel.Money) (Item, error) {
	if productID == "" {
		return Item{}, errs.NewValueIsRequiredError("productId")
	}

	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		productID: productID,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

// ProductID returns the product identifier for the line.
func (i Item) ProductID() string {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the fixed-point price per unit.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal returns quantity x unit price for the line.
func (i Item) Subtotal() kernel.Money {
	return i.unitPrice.MulInt(i.quantity)
}
