// Package orderrepo persists order snapshots with GORM. An order is stored as one row
// in orders plus one row per line in order_items.
package orderrepo

import (
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
)

// OrderDTO represents the database structure for persisting order snapshots.
type OrderDTO struct {
	Number      string `gorm:"type:varchar(64);primaryKey"`
	Status      int    `gorm:"index"`
	CreatedAt   time.Time
	CompletedAt *time.Time
	Version     int64
	Items       []OrderItemDTO `gorm:"foreignKey:OrderNumber;references:Number;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for orders.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order line. Position is the index of the line in the order.
type OrderItemDTO struct {
	OrderNumber string `gorm:"type:varchar(64);primaryKey"`
	Position    int    `gorm:"primaryKey;autoIncrement:false"`
	ProductType string `gorm:"type:varchar(128)"`
	Quantity    int
	Completed   bool
}

// TableName specifies the database table name for order lines.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	dto := OrderDTO{
		Number:      o.Number().String(),
		Status:      int(o.Status()),
		CreatedAt:   o.CreatedAt().UTC(),
		CompletedAt: o.CompletedAt(),
		Version:     o.Version(),
		Items:       make([]OrderItemDTO, 0, len(items)),
	}
	for i, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderNumber: dto.Number,
			Position:    i,
			ProductType: item.ProductType().String(),
			Quantity:    item.Quantity(),
			Completed:   item.IsCompleted(),
		})
	}
	return dto
}

// toDomain rebuilds an order aggregate from its rows using RestoreOrder.
// Items must be sorted by position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	number, err := kernel.NewOrderNumber(dto.Number)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		pt, ptErr := skillgroup.NewProductType(itemDTO.ProductType)
		if ptErr != nil {
			return nil, ptErr
		}
		item, itemErr := order.RestoreItem(pt, itemDTO.Quantity, itemDTO.Completed)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(number, items, order.Status(dto.Status), dto.CreatedAt, dto.CompletedAt, dto.Version)
}
