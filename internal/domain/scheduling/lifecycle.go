package scheduling

import "github.com/carebook/carebook/internal/errs"

// transitions is the complete lifecycle table. Pending is the initial state
// for patient bookings, Confirmed for admin-created appointments; Completed
// and Cancelled are terminal. Nothing re-enters Pending.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is in the lifecycle table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns the taxonomy error for an illegal move.
func checkTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &errs.IllegalTransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// Role names as resolved by the boundary. The core never authenticates;
// these exist only so the three role dashboards can share one policy filter
// instead of three hand-rolled switch statements.
const (
	RoleAdmin        = "admin"
	RolePractitioner = "practitioner"
	RolePatient      = "patient"
)

// RoleCanTransition is the thin per-role policy filter applied at the
// handler boundary, on top of (not instead of) the lifecycle table:
// confirming takes a practitioner or an admin, completing takes a
// practitioner, and anyone involved may cancel.
func RoleCanTransition(role string, from, to Status) bool {
	if !CanTransition(from, to) {
		return false
	}
	switch to {
	case StatusConfirmed:
		return role == RoleAdmin || role == RolePractitioner
	case StatusCompleted:
		return role == RolePractitioner
	case StatusCancelled:
		return role == RoleAdmin || role == RolePractitioner || role == RolePatient
	}
	return false
}
