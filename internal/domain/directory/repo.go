package directory

import "context"

// PatientRepository is the patient collection of the entity store.
type PatientRepository interface {
	Upsert(ctx context.Context, p *Patient) error
	Get(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, match func(*Patient) bool) ([]*Patient, error)
	// DeleteCascade removes the patient and every appointment referencing it
	// as one logical operation. It returns the number of appointments
	// removed. A missing id is a no-op.
	DeleteCascade(ctx context.Context, id string) (int, error)
}

// PractitionerRepository is the practitioner collection of the entity store.
type PractitionerRepository interface {
	Upsert(ctx context.Context, p *Practitioner) error
	Get(ctx context.Context, id string) (*Practitioner, error)
	List(ctx context.Context, match func(*Practitioner) bool) ([]*Practitioner, error)
	DeleteCascade(ctx context.Context, id string) (int, error)
}
