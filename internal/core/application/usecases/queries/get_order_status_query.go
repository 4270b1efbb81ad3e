package queries

import (
	"errors"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/pkg/guard"
)

var ErrGetOrderStatusQueryIsNotConstructed = errors.New(
	"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
)

// GetOrderStatusQuery looks up one order by number.
type GetOrderStatusQuery struct {
	number kernel.OrderNumber
	guard  guard.ConstructorGuard
}

// NewGetOrderStatusQuery creates a lookup for number.
func NewGetOrderStatusQuery(number string) (GetOrderStatusQuery, error) {
	n, err := kernel.NewOrderNumber(number)
	if err != nil {
		return GetOrderStatusQuery{}, err
	}
	return GetOrderStatusQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

func (q GetOrderStatusQuery) Number() kernel.OrderNumber {
	return q.number
}
