package ports

import (
	"context"

	"workload/internal/core/domain/model/staff"
)

// StaffRepository defines the persistence contract for the staff directory.
// Only identity, name and skill groups are stored; login state lives in the engine.
type StaffRepository interface {
	// Add persists a new staff member.
	// Returns an error matching staff.ErrDuplicateStaff when the id is already stored.
	Add(ctx context.Context, member *staff.Member) error

	// Get retrieves a staff member by id.
	// Returns an error matching staff.ErrUnknownStaff when the id is not stored.
	Get(ctx context.Context, id staff.ID) (*staff.Member, error)

	// GetAll retrieves the whole directory ordered by id.
	GetAll(ctx context.Context) ([]*staff.Member, error)
}
