package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/errs"
)

// -- Mock Repositories --

type mockAppointmentRepo struct {
	ids   []string
	appts map[string]*Appointment
	next  int
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[string]*Appointment)}
}

func (m *mockAppointmentRepo) Upsert(_ context.Context, a *Appointment) error {
	if a.ID == "" {
		m.next++
		a.ID = fmt.Sprintf("a-%d", m.next)
	}
	if _, ok := m.appts[a.ID]; !ok {
		m.ids = append(m.ids, a.ID)
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) Get(_ context.Context, id string) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, errs.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) List(_ context.Context, match func(*Appointment) bool) ([]*Appointment, error) {
	var result []*Appointment
	for _, id := range m.ids {
		a := m.appts[id]
		if match == nil || match(a) {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.appts[id]; !ok {
		return nil
	}
	delete(m.appts, id)
	for i, existing := range m.ids {
		if existing == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
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

type mockPractitionerDir struct {
	practitioners map[string]*directory.Practitioner
}

func (m *mockPractitionerDir) Get(_ context.Context, id string) (*directory.Practitioner, error) {
	p, ok := m.practitioners[id]
	if !ok {
		return nil, fmt.Errorf("practitioner %s: %w", id, errs.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *mockPractitionerDir) List(_ context.Context, match func(*directory.Practitioner) bool) ([]*directory.Practitioner, error) {
	var result []*directory.Practitioner
	for _, p := range m.practitioners {
		if match == nil || match(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func newTestService() (*Service, *mockAppointmentRepo) {
	appts := newMockAppointmentRepo()
	patients := &mockPatientDir{patients: map[string]*directory.Patient{
		"p-1001": {ID: "p-1001", Name: "John Carter", Email: "john.carter@example.com", Status: directory.StatusActive},
	}}
	practitioners := &mockPractitionerDir{practitioners: map[string]*directory.Practitioner{
		"d-2001": {ID: "d-2001", Name: "Dr. Sarah Johnson", Email: "sarah.johnson@health.com", Specialization: "Cardiology", Status: directory.StatusActive},
		"d-2004": {ID: "d-2004", Name: "Dr. James Wilson", Email: "james.wilson@health.com", Specialization: "Orthopedics", Status: directory.StatusInactive},
	}}
	return NewService(appts, patients, practitioners), appts
}

func TestCreateAppointment(t *testing.T) {
	svc, _ := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	a, err := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "Heart Checkup", at, StatusPending)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if a.ID == "" {
		t.Error("expected id to be assigned")
	}
	if a.PatientName != "John Carter" {
		t.Errorf("patient name snapshot = %q", a.PatientName)
	}
	if a.DoctorName != "Dr. Sarah Johnson" {
		t.Errorf("doctor name snapshot = %q", a.DoctorName)
	}
	if a.Specialization != "Cardiology" {
		t.Errorf("specialization snapshot = %q", a.Specialization)
	}
	if a.Status != StatusPending {
		t.Errorf("status = %s, want Pending", a.Status)
	}
}

func TestCreateAppointment_UnknownPatient(t *testing.T) {
	svc, _ := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateAppointment(context.Background(), "p-9999", "d-2001", "Checkup", at, StatusPending)
	var refErr *errs.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if refErr.Entity != "patient" || refErr.ID != "p-9999" {
		t.Errorf("got %+v", refErr)
	}
}

func TestCreateAppointment_UnknownPractitioner(t *testing.T) {
	svc, _ := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateAppointment(context.Background(), "p-1001", "d-9999", "Checkup", at, StatusPending)
	var refErr *errs.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
	if refErr.Entity != "practitioner" {
		t.Errorf("entity = %q", refErr.Entity)
	}
}

func TestCreateAppointment_EmptyReason(t *testing.T) {
	svc, repo := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "   ", at, StatusPending)
	var valErr *errs.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.ids) != 0 {
		t.Error("rejected create must not write anything")
	}
}

func TestCreateAppointment_BadInitialStatus(t *testing.T) {
	svc, _ := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	for _, initial := range []Status{StatusCompleted, StatusCancelled} {
		_, err := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "Checkup", at, initial)
		var valErr *errs.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("initial %s: expected ValidationError, got %v", initial, err)
		}
	}
}

func TestTransition(t *testing.T) {
	svc, _ := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	a, err := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "Checkup", at, StatusPending)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	a, err = svc.Transition(context.Background(), a.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("Transition to Confirmed: %v", err)
	}
	if a.Status != StatusConfirmed {
		t.Errorf("status = %s", a.Status)
	}

	a, err = svc.Transition(context.Background(), a.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("Transition to Completed: %v", err)
	}
	if a.Status != StatusCompleted {
		t.Errorf("status = %s", a.Status)
	}
}

func TestTransition_IllegalLeavesAppointmentUntouched(t *testing.T) {
	svc, repo := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	a, err := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "Checkup", at, StatusPending)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	before := *repo.appts[a.ID]

	_, err = svc.Transition(context.Background(), a.ID, StatusCompleted)
	var trErr *errs.IllegalTransitionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}
	if trErr.From != "Pending" || trErr.To != "Completed" {
		t.Errorf("got %+v", trErr)
	}
	after := *repo.appts[a.ID]
	if before != after {
		t.Error("illegal transition must leave the appointment unchanged")
	}
}

func TestUpdate_StatusUntouchable(t *testing.T) {
	svc, _ := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	a, err := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "Checkup", at, StatusPending)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	newReason := "Annual Physical"
	notes := "bring prior ECG"
	updated, err := svc.Update(context.Background(), a.ID, AppointmentUpdate{Reason: &newReason, Notes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Reason != newReason || updated.Notes != notes {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Status != StatusPending {
		t.Errorf("update must not change status, got %s", updated.Status)
	}

	empty := ""
	if _, err := svc.Update(context.Background(), a.ID, AppointmentUpdate{Reason: &empty}); err == nil {
		t.Error("expected clearing reason to fail")
	}
}

func TestDelete_AnyState(t *testing.T) {
	svc, repo := newTestService()
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	a, _ := svc.CreateAppointment(context.Background(), "p-1001", "d-2001", "Checkup", at, StatusConfirmed)
	if _, err := svc.Transition(context.Background(), a.ID, StatusCompleted); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.ids) != 0 {
		t.Error("appointment should be gone")
	}
	// deleting again is a no-op
	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFindPractitioners(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.FindPractitioners(context.Background(), "cardio", "")
	if err != nil {
		t.Fatalf("FindPractitioners: %v", err)
	}
	if len(got) != 1 || got[0].ID != "d-2001" {
		t.Fatalf("got %d practitioners", len(got))
	}

	// inactive practitioners never match
	got, err = svc.FindPractitioners(context.Background(), "wilson", "")
	if err != nil {
		t.Fatalf("FindPractitioners: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("inactive practitioner returned: %v", got[0].ID)
	}
}
