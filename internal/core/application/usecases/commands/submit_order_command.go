package commands

import (
	"errors"
	"fmt"
	"strings"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/order"
	"workload/internal/pkg/errs"
	"workload/internal/pkg/guard"
)

var (
	ErrSubmitOrderCommandIsNotConstructed = errors.New(
		"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
	)
	ErrProductTypeIsRequired = errs.NewValueIsRequiredError("product type")
	ErrQuantityIsInvalid     = errs.NewValueIsInvalidError("quantity must be greater than 0")
)

// SubmitOrderCommand represents a request to place an order.
// The order number is optional; an empty number is generated by the engine.
//
// Example:
//
//	cmd, err := NewSubmitOrderCommand("", []dispatch.ItemRequest{
//	    {ProductType: "Veg Pizza", Quantity: 2},
//	    {ProductType: "Drinks", Quantity: 1},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//
//	outcome, err := handler.Handle(ctx, cmd)
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	number string
	items  []dispatch.ItemRequest

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates a command to place an order.
// Every item needs a product type and a positive quantity. All problems are reported
// together.
func NewSubmitOrderCommand(number string, items []dispatch.ItemRequest) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setNumber(number),
		cmd.setItems(items),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// Number returns the requested order number, or "" for a generated one.
func (c SubmitOrderCommand) Number() string {
	return c.number
}

// Items returns a copy of the requested lines.
func (c SubmitOrderCommand) Items() []dispatch.ItemRequest {
	out := make([]dispatch.ItemRequest, len(c.items))
	copy(out, c.items)
	return out
}

func (c *SubmitOrderCommand) setNumber(number string) error {
	c.number = strings.TrimSpace(number)
	return nil
}

func (c *SubmitOrderCommand) setItems(items []dispatch.ItemRequest) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}

	var problems []error
	for i, item := range items {
		if strings.TrimSpace(item.ProductType) == "" {
			problems = append(problems, fmt.Errorf("item %d: %w", i, ErrProductTypeIsRequired))
		}
		if item.Quantity <= 0 {
			problems = append(problems, fmt.Errorf("item %d: %w", i, ErrQuantityIsInvalid))
		}
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	c.items = make([]dispatch.ItemRequest, len(items))
	copy(c.items, items)
	return nil
}
