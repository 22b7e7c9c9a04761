package records

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/errs"
)

// -- Mock Repositories --

type mockRecordRepo struct {
	ids  []string
	recs map[string]*MedicalRecord
	next int
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{recs: make(map[string]*MedicalRecord)}
}

func (m *mockRecordRepo) Upsert(_ context.Context, r *MedicalRecord) error {
	if r.ID == "" {
		m.next++
		r.ID = fmt.Sprintf("r-%d", m.next)
	}
	if _, ok := m.recs[r.ID]; !ok {
		m.ids = append(m.ids, r.ID)
	}
	cp := *r
	m.recs[r.ID] = &cp
	return nil
}

func (m *mockRecordRepo) Get(_ context.Context, id string) (*MedicalRecord, error) {
	r, ok := m.recs[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, errs.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (m *mockRecordRepo) List(_ context.Context, match func(*MedicalRecord) bool) ([]*MedicalRecord, error) {
	var result []*MedicalRecord
	for _, id := range m.ids {
		r := m.recs[id]
		if match == nil || match(r) {
			cp := *r
			result = append(result, &cp)
		}
	}
	return result, nil
}

type mockPatientDir struct {
	patients map[string]*directory.Patient
}

func (m *mockPatientDir) Get(_ context.Context, id string) (*directory.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, errs.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func newTestService() (*Service, *mockRecordRepo) {
	repo := newMockRecordRepo()
	patients := &mockPatientDir{patients: map[string]*directory.Patient{
		"p-1001": {ID: "p-1001", Name: "John Carter", Email: "john.carter@example.com", Status: directory.StatusActive},
	}}
	return NewService(repo, patients), repo
}

func TestAddRecord(t *testing.T) {
	svc, _ := newTestService()

	r := &MedicalRecord{
		PatientID:    "p-1001",
		Diagnosis:    "Hypertension",
		Prescription: "Lisinopril 10mg daily",
		DoctorName:   "Dr. Sarah Johnson",
	}
	if err := svc.Add(context.Background(), r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.ID == "" {
		t.Error("expected id to be assigned")
	}
	if r.Date == "" {
		t.Error("date should default to today")
	}
}

func TestAddRecord_RequiresDiagnosisAndPrescription(t *testing.T) {
	svc, repo := newTestService()

	cases := []*MedicalRecord{
		{PatientID: "p-1001", Diagnosis: "", Prescription: "Lisinopril"},
		{PatientID: "p-1001", Diagnosis: "Hypertension", Prescription: "  "},
	}
	for _, r := range cases {
		err := svc.Add(context.Background(), r)
		var valErr *errs.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("Add(%+v): expected ValidationError, got %v", r, err)
		}
	}
	if len(repo.ids) != 0 {
		t.Error("rejected records must not be written")
	}
}

func TestAddRecord_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()

	r := &MedicalRecord{PatientID: "p-9999", Diagnosis: "Migraine", Prescription: "Sumatriptan"}
	err := svc.Add(context.Background(), r)
	var refErr *errs.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if refErr.Entity != "patient" || refErr.ID != "p-9999" {
		t.Errorf("got %+v", refErr)
	}
}

func TestListByPatient_InsertionOrder(t *testing.T) {
	svc, _ := newTestService()

	for _, diag := range []string{"Hypertension", "Follow-up - Hypertension", "Migraine"} {
		r := &MedicalRecord{PatientID: "p-1001", Diagnosis: diag, Prescription: "Rx"}
		if err := svc.Add(context.Background(), r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := svc.ListByPatient(context.Background(), "p-1001")
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].Diagnosis != "Hypertension" || got[2].Diagnosis != "Migraine" {
		t.Error("records must come back in the order written")
	}
}
