package order

import (
	"errors"
	"fmt"

	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/pkg/errs"
)

// Item is one line of an order: a product type and a positive quantity.
// The completed flag is set once the work unit carrying the item is completed.
type Item struct {
	productType skillgroup.ProductType
	quantity    int
	completed   bool
}

// NewItem validates a product type and quantity.
func NewItem(productType skillgroup.ProductType, quantity int) (Item, error) {
	var item Item
	if err := errors.Join(
		item.setProductType(productType),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}
	return item, nil
}

// RestoreItem rebuilds an item read from persistence.
func RestoreItem(productType skillgroup.ProductType, quantity int, completed bool) (Item, error) {
	item, err := NewItem(productType, quantity)
	if err != nil {
		return Item{}, err
	}
	item.completed = completed
	return item, nil
}

// ProductType returns the item's product type.
func (i Item) ProductType() skillgroup.ProductType {
	return i.productType
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// IsCompleted reports whether the item has been prepared.
func (i Item) IsCompleted() bool {
	return i.completed
}

func (i *Item) setProductType(productType skillgroup.ProductType) error {
	if productType.IsZero() {
		return skillgroup.ErrProductTypeIsRequired
	}
	i.productType = productType
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
