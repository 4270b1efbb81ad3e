package workunit

import (
	"fmt"

	"workload/internal/pkg/errs"
)

// Status is the lifecycle state of a work unit.
//
//	Queued ──> Assigned ──> Completed
//	   ^          │
//	   └──────────┘
//	 (revert on logout)
type Status int

const (
	Unknown Status = iota
	Queued
	Assigned
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Queued:    "Queued",
		Assigned:  "Assigned",
		Completed: "Completed",
	}
}

// Validate rejects Unknown and values outside the enum.
func (s Status) Validate() error {
	if s <= Unknown || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Assign transitions Queued -> Assigned.
func (s Status) Assign() (Status, error) {
	if s != Queued {
		return 0, errs.NewInvalidStateTransitionError("work unit", s.String(), Assigned.String())
	}
	return Assigned, nil
}

// Revert transitions Assigned -> Queued.
func (s Status) Revert() (Status, error) {
	if s != Assigned {
		return 0, errs.NewInvalidStateTransitionError("work unit", s.String(), Queued.String())
	}
	return Queued, nil
}

// Complete transitions Assigned -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Assigned {
		return 0, errs.NewInvalidStateTransitionError("work unit", s.String(), Completed.String())
	}
	return Completed, nil
}
