package orderrepo

import (
	"context"
	"errors"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

type nopTracker struct{}

func (nopTracker) TrackAggregate(string, any) {}

// NewGormOrderRepository creates a new GORM order repository. tracker may be nil.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	if tracker == nil {
		tracker = nopTracker{}
	}
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Save upserts the order row and its lines. The row is only replaced when the stored
// version is older, so a late snapshot never overwrites a newer one.
func (r *GormOrderRepository) Save(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	items := dto.Items
	dto.Items = nil

	db := r.db.WithContext(ctx)
	result := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at", "version"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "orders.version < excluded.version"},
		}},
	}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// A newer snapshot is already stored.
		return nil
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_number"}, {Name: "position"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed"}),
	}).Create(&items).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(dto.Number, aggregate)
	return nil
}

// Get retrieves an order with its lines by number.
func (r *GormOrderRepository) Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.withItems(ctx).First(&dto, "number = ?", number.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewNotFoundError(number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatus retrieves every order in status, oldest first.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status = ?", int(status)).
		Order("created_at, number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
