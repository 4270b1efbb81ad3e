package order

import (
	"errors"
	"fmt"
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned for an order without items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrUnknownOrder is returned when an order number does not identify a known order.
	ErrUnknownOrder = errors.New("unknown order")

	// ErrDuplicateOrder is returned when an order number is already in use. Order numbers
	// are never reused.
	ErrDuplicateOrder = errors.New("duplicate order number")
)

// NewNotFoundError builds the error returned for an unknown order number. It matches both
// errs.ErrObjectNotFound and ErrUnknownOrder.
func NewNotFoundError(number kernel.OrderNumber) error {
	return errs.NewObjectNotFoundErrorWithCause("orderNumber", number.String(), ErrUnknownOrder)
}

// NewDuplicateError builds the error returned when number is already taken.
func NewDuplicateError(number kernel.OrderNumber) error {
	return fmt.Errorf("%w: %s", ErrDuplicateOrder, number)
}

// Order is the aggregate root of a customer order.
//
// Order follows these invariants:
//   - Must have a valid order number
//   - Must have at least one item, kept in submission order
//   - Status transitions follow Placed -> WorkInProgress -> Complete
//   - completedAt is set exactly when the status is Complete
//   - version grows by one with every state change
type Order struct {
	number kernel.OrderNumber
	items  []Item
	status Status

	createdAt   time.Time
	completedAt time.Time

	// version backs the last-write-wins guard of the order repositories
	version int64

	isConstructed bool
}

// NewOrder creates a Placed order with version 1.
//
// Example:
//
//	number, _ := kernel.NewOrderNumber("ORD07032026-000001")
//	item, _ := order.NewItem(skillgroup.MustProductType("Margherita"), 2)
//	o, err := order.NewOrder(number, []order.Item{item}, time.Now())
func NewOrder(number kernel.OrderNumber, items []Item, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Placed,
		createdAt:     createdAt,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setNumber(number),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from persistence. The status, timestamps and
// version are taken as stored, after checking they are consistent with each other.
func RestoreOrder(
	number kernel.OrderNumber,
	items []Item,
	status Status,
	createdAt time.Time,
	completedAt *time.Time,
	version int64,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setNumber(number),
		o.setItems(items),
		status.Validate(),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}
	o.status = status

	switch {
	case status == Complete && completedAt == nil:
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"completed at is invalid",
			fmt.Errorf("%s order must have a completion time", status),
		)
	case status != Complete && completedAt != nil:
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"completed at is invalid",
			fmt.Errorf("%s order must not have a completion time", status),
		)
	case completedAt != nil:
		o.completedAt = *completedAt
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Number returns the order number.
func (o *Order) Number() kernel.OrderNumber {
	return o.number
}

// Items returns a copy of the order's items in submission order.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Item returns the item at index.
func (o *Order) Item(index int) (Item, error) {
	if index < 0 || index >= len(o.items) {
		return Item{}, errs.NewValueIsOutOfRangeError("item index", index, 0, len(o.items)-1)
	}
	return o.items[index], nil
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CreatedAt returns the submission time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CompletedAt returns the completion time, or nil while the order is not Complete.
func (o *Order) CompletedAt() *time.Time {
	if o.status != Complete {
		return nil
	}
	at := o.completedAt
	return &at
}

// Version returns the number of state changes the order has gone through, plus one.
func (o *Order) Version() int64 {
	return o.version
}

// StartWork moves a Placed order to WorkInProgress.
func (o *Order) StartWork() error {
	newStatus, err := o.status.StartWork()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.version++
	return nil
}

// CompleteItems marks the items at the given indexes as completed. A Complete order
// is immutable and rejects the call. The call is atomic: either every index is valid
// and all items are marked, or nothing changes.
func (o *Order) CompleteItems(indexes []int) error {
	if o.status.IsTerminal() {
		return errs.NewInvalidStateTransitionError("order item", o.status.String(), "Completed")
	}
	for _, idx := range indexes {
		if _, err := o.Item(idx); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		o.items[idx].completed = true
	}
	o.version++
	return nil
}

// Complete moves a WorkInProgress order to Complete and stamps the completion time.
// Every item is marked completed.
func (o *Order) Complete(at time.Time) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	for i := range o.items {
		o.items[i].completed = true
	}
	o.status = newStatus
	o.completedAt = at
	o.version++
	return nil
}

// Clone returns a deep copy that shares no state with o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.items = o.Items()
	return &clone
}

func (o *Order) setNumber(number kernel.OrderNumber) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for i, item := range items {
		if item.productType.IsZero() || item.quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("items are invalid", fmt.Errorf("item %d was not created via NewItem", i))
		}
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}
	o.version = version
	return nil
}
