package order

import (
	"fmt"
	"strings"

	"workload/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Placed ──> WorkInProgress ──> Complete
//
// An order enters WorkInProgress when its first work unit is assigned to a staff
// member and Complete when every one of its work units is completed. There is no
// backward edge: an order whose units are handed back on logout stays WorkInProgress.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Placed is the initial status. None of the order's work units is assigned yet.
	Placed

	// WorkInProgress indicates at least one work unit of the order has been assigned.
	WorkInProgress

	// Complete indicates every work unit of the order has been completed.
	// This is a final state with no further transitions allowed.
	Complete
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Placed:         "Placed",
		WorkInProgress: "WorkInProgress",
		Complete:       "Complete",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Placed:         "Placed",
		WorkInProgress: "WorkInProgress",
		Complete:       "Complete",
	}
}

// ParseStatus converts the persisted or transported name of a status back into a Status.
// Matching ignores case, so "placed" and "PLACED" are both accepted.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Placed, WorkInProgress, Complete}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any values outside the enum are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status. It is safe to call on any
// Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Complete
}

// StartWork transitions the status to WorkInProgress.
//
// Valid transitions:
//   - Placed -> WorkInProgress (first work unit assigned)
//
// Any other source status yields an errs.InvalidStateTransitionError.
func (s Status) StartWork() (Status, error) {
	if s != Placed {
		return 0, errs.NewInvalidStateTransitionError("order", s.String(), WorkInProgress.String())
	}
	return WorkInProgress, nil
}

// Complete transitions the status to Complete.
//
// Valid transitions:
//   - WorkInProgress -> Complete (all work units completed)
//
// Placed orders cannot be completed directly; they must pass through WorkInProgress.
func (s Status) Complete() (Status, error) {
	if s != WorkInProgress {
		return 0, errs.NewInvalidStateTransitionError("order", s.String(), Complete.String())
	}
	return Complete, nil
}
