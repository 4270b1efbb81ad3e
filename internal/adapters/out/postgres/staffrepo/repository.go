package staffrepo

import (
	"context"
	"errors"

	"workload/internal/core/domain/model/staff"

	"gorm.io/gorm"
)

// GormStaffRepository implements ports.StaffRepository using GORM.
type GormStaffRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

type nopTracker struct{}

func (nopTracker) TrackAggregate(string, any) {}

// NewGormStaffRepository creates a new GORM staff repository. tracker may be nil.
func NewGormStaffRepository(db *gorm.DB, tracker aggregateTracker) *GormStaffRepository {
	if tracker == nil {
		tracker = nopTracker{}
	}
	return &GormStaffRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores a new member with its skill groups.
func (r *GormStaffRepository) Add(ctx context.Context, member *staff.Member) error {
	if err := member.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&StaffDTO{}).Where("id = ?", member.ID().String()).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return staff.NewDuplicateError(member.ID())
	}

	dto := fromDomain(member)
	if err := db.Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return staff.NewDuplicateError(member.ID())
		}
		return err
	}

	r.tracker.TrackAggregate(dto.ID, member)
	return nil
}

// Get retrieves a member by id.
func (r *GormStaffRepository) Get(ctx context.Context, id staff.ID) (*staff.Member, error) {
	var dto StaffDTO
	err := r.withGroups(ctx).First(&dto, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.NewNotFoundError(id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves the whole directory ordered by id.
func (r *GormStaffRepository) GetAll(ctx context.Context) ([]*staff.Member, error) {
	var dtos []StaffDTO
	if err := r.withGroups(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	members := make([]*staff.Member, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, nil
}

func (r *GormStaffRepository) withGroups(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Groups", func(db *gorm.DB) *gorm.DB {
		return db.Order("skill_group")
	})
}
