// Package guard provides ConstructorGuard, a marker embedded in commands, queries and
// value objects that must only be built through their constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded value is a zero
// value and the caller did not supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes a value produced by its constructor from a zero value.
//
// Embed it as a private field and set it in the constructor:
//
//	type StaffLoginCommand struct {
//	    staffID string
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewStaffLoginCommand(staffID string) (StaffLoginCommand, error) {
//	    ...
//	    return StaffLoginCommand{staffID: staffID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c StaffLoginCommand) Validate() error {
//	    return c.guard.Validate(ErrStaffLoginCommandIsNotConstructed)
//	}
//
// The guard is a plain value: copies stay valid and it is safe for concurrent reads.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero value it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
