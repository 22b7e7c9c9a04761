package scheduling

import (
	"context"

	"github.com/carebook/carebook/internal/domain/directory"
)

// AppointmentRepository is the appointment collection of the entity store.
type AppointmentRepository interface {
	Upsert(ctx context.Context, a *Appointment) error
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, match func(*Appointment) bool) ([]*Appointment, error)
	// Delete removes the appointment from any lifecycle state. Missing ids
	// are a no-op.
	Delete(ctx context.Context, id string) error
}

// PatientDirectory is the slice of the patient registry the consistency
// checks need: resolving a patient id at creation time.
type PatientDirectory interface {
	Get(ctx context.Context, id string) (*directory.Patient, error)
}

// PractitionerDirectory resolves practitioner ids and backs the booking
// workflow's practitioner search.
type PractitionerDirectory interface {
	Get(ctx context.Context, id string) (*directory.Practitioner, error)
	List(ctx context.Context, match func(*directory.Practitioner) bool) ([]*directory.Practitioner, error)
}
