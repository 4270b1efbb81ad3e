package queries

import (
	"errors"

	"workload/internal/core/domain/model/order"
	"workload/internal/pkg/guard"
)

var ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
	"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
)

// GetOrdersByStatusQuery lists the orders in one status.
type GetOrdersByStatusQuery struct {
	status order.Status
	guard  guard.ConstructorGuard
}

// NewGetOrdersByStatusQuery creates a listing for a status name such as "Placed",
// "WorkInProgress" or "Complete". Names are case-insensitive.
func NewGetOrdersByStatusQuery(status string) (GetOrdersByStatusQuery, error) {
	s, err := order.ParseStatus(status)
	if err != nil {
		return GetOrdersByStatusQuery{}, err
	}
	return GetOrdersByStatusQuery{status: s, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

func (q GetOrdersByStatusQuery) Status() order.Status {
	return q.status
}
