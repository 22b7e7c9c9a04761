package records

import (
	"context"

	"github.com/carebook/carebook/internal/domain/directory"
)

// RecordRepository is the medical record collection of the entity store.
// There is deliberately no delete; the log is append-only.
type RecordRepository interface {
	Upsert(ctx context.Context, r *MedicalRecord) error
	Get(ctx context.Context, id string) (*MedicalRecord, error)
	List(ctx context.Context, match func(*MedicalRecord) bool) ([]*MedicalRecord, error)
}

// PatientDirectory resolves the patient a record is written for.
type PatientDirectory interface {
	Get(ctx context.Context, id string) (*directory.Patient, error)
}
