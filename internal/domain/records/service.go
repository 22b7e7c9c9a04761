package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carebook/carebook/internal/errs"
)

type Service struct {
	records  RecordRepository
	patients PatientDirectory
}

func NewService(records RecordRepository, patients PatientDirectory) *Service {
	return &Service{records: records, patients: patients}
}

// Add validates and appends a medical record. The patient reference must
// resolve; diagnosis and prescription are both required. The date defaults
// to today when the caller leaves it empty.
func (s *Service) Add(ctx context.Context, r *MedicalRecord) error {
	if strings.TrimSpace(r.Diagnosis) == "" {
		return &errs.ValidationError{Field: "diagnosis", Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.Prescription) == "" {
		return &errs.ValidationError{Field: "prescription", Reason: "must not be empty"}
	}
	if _, err := s.patients.Get(ctx, r.PatientID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return &errs.ReferenceError{Entity: "patient", ID: r.PatientID}
		}
		return err
	}
	if r.Date == "" {
		r.Date = time.Now().Format("2006-01-02")
	}
	return s.records.Upsert(ctx, r)
}

func (s *Service) Get(ctx context.Context, id string) (*MedicalRecord, error) {
	return s.records.Get(ctx, id)
}

// List returns all records in insertion order.
func (s *Service) List(ctx context.Context) ([]*MedicalRecord, error) {
	return s.records.List(ctx, nil)
}

// ListByPatient returns the patient's records in the order they were written.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*MedicalRecord, error) {
	return s.records.List(ctx, func(r *MedicalRecord) bool { return r.PatientID == patientID })
}
