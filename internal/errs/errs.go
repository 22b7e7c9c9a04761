// Package errs defines the recoverable error taxonomy shared by the entity
// store and the domain services. Every error here rejects a command as a
// whole: the store is left exactly as it was, and the caller may retry with
// corrected input.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup for an id that is not in the store.
var ErrNotFound = errors.New("not found")

// ReferenceError reports a command that names an entity id which does not
// resolve, e.g. booking an appointment for a deleted practitioner.
type ReferenceError struct {
	Entity string // "patient", "practitioner", "appointment"
	ID     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Entity, e.ID)
}

// ValidationError reports input that violates a structural rule: a required
// field cleared to empty, a booking datetime in the past, an unknown status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IllegalTransitionError reports an appointment status change that is not in
// the lifecycle table. The appointment is left unchanged.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// HTTPStatus maps a taxonomy error to the status code the handlers return:
// 404 for missing ids, 422 for dangling references, 400 for bad input, 409
// for illegal lifecycle moves, 500 for anything outside the taxonomy.
func HTTPStatus(err error) int {
	var refErr *ReferenceError
	var valErr *ValidationError
	var trErr *IllegalTransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.As(err, &refErr):
		return 422
	case errors.As(err, &valErr):
		return 400
	case errors.As(err, &trErr):
		return 409
	}
	return 500
}
