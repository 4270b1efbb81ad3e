package services

import (
	"errors"

	"workload/internal/core/domain/model/staff"
)

// ErrNoEligibleStaff is returned when no candidate can take the next work unit.
var ErrNoEligibleStaff = errors.New("no eligible staff")

// Candidate is a point-in-time view of an eligible staff member: logged in, member of
// the group being served, and below the per-staff capacity.
type Candidate struct {
	ID       staff.ID
	Assigned int
	LoginSeq uint64
}

// CandidateOf captures the selection inputs of m. The caller must hold the member's lock.
func CandidateOf(m *staff.Member) Candidate {
	return Candidate{
		ID:       m.ID(),
		Assigned: m.AssignedCount(),
		LoginSeq: m.LoginSeq(),
	}
}

// StaffSelector chooses among eligible staff.
//
// Selection criteria, in order:
//   - fewest currently assigned work units
//   - earliest login
//   - staff id
//
// The result depends only on the candidates, never on their order in the slice.
type StaffSelector struct{}

// NewStaffSelector creates a StaffSelector.
func NewStaffSelector() StaffSelector {
	return StaffSelector{}
}

// Select returns the best candidate, or ErrNoEligibleStaff when there is none.
func (s StaffSelector) Select(candidates []Candidate) (Candidate, error) {
	var (
		best  Candidate
		found bool
	)

	for _, c := range candidates {
		if !found || s.better(c, best) {
			best = c
			found = true
		}
	}

	if !found {
		return Candidate{}, ErrNoEligibleStaff
	}
	return best, nil
}

func (s StaffSelector) better(a, b Candidate) bool {
	if a.Assigned != b.Assigned {
		return a.Assigned < b.Assigned
	}
	if a.LoginSeq != b.LoginSeq {
		return a.LoginSeq < b.LoginSeq
	}
	return a.ID.Less(b.ID)
}
