package queries

import (
	"context"
	"errors"

	"workload/internal/pkg/guard"
)

var ErrGetAvailableProductsQueryIsNotConstructed = errors.New(
	"GetAvailableProductsQuery must be created via NewGetAvailableProductsQuery constructor",
)

// GetAvailableProductsQuery lists the product types that can be prepared right now,
// that is whose skill group has at least one logged-in member.
type GetAvailableProductsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAvailableProductsQuery() GetAvailableProductsQuery {
	return GetAvailableProductsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableProductsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableProductsQueryIsNotConstructed)
}

// GetAvailableProductsQueryHandler answers GetAvailableProductsQuery.
type GetAvailableProductsQueryHandler struct {
	catalog ProductCatalog
}

func NewGetAvailableProductsQueryHandler(catalog ProductCatalog) GetAvailableProductsQueryHandler {
	return GetAvailableProductsQueryHandler{catalog: catalog}
}

// Handle returns the product type names sorted by name.
func (h GetAvailableProductsQueryHandler) Handle(ctx context.Context, query GetAvailableProductsQuery) ([]string, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	products := h.catalog.AvailableProducts(ctx)
	names := make([]string, 0, len(products))
	for _, pt := range products {
		names = append(names, pt.String())
	}
	return names, nil
}
