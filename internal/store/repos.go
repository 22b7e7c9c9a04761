package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/domain/records"
	"github.com/carebook/carebook/internal/domain/scheduling"
	"github.com/carebook/carebook/internal/errs"
)

// Runtime ids carry the same single-letter prefixes as the seed dataset, so
// an id's entity kind is readable in logs.
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Patients returns the PatientRepository backed by this store.
func (s *EntityStore) Patients() *PatientRepo { return &PatientRepo{s: s} }

// Practitioners returns the PractitionerRepository backed by this store.
func (s *EntityStore) Practitioners() *PractitionerRepo { return &PractitionerRepo{s: s} }

// Appointments returns the AppointmentRepository backed by this store.
func (s *EntityStore) Appointments() *AppointmentRepo { return &AppointmentRepo{s: s} }

// Records returns the RecordRepository backed by this store.
func (s *EntityStore) Records() *RecordRepo { return &RecordRepo{s: s} }

type PatientRepo struct {
	s *EntityStore
}

var _ directory.PatientRepository = (*PatientRepo)(nil)

func (r *PatientRepo) Upsert(ctx context.Context, p *directory.Patient) error {
	if p.ID == "" {
		p.ID = newID("p")
	}
	cp := *p
	r.s.mu.Lock()
	r.s.patients.upsert(&cp)
	items := copySlice(r.s.patients.list(nil))
	r.s.mu.Unlock()
	r.s.saveSnapshot(ctx, KeyPatients, items)
	return nil
}

func (r *PatientRepo) Get(ctx context.Context, id string) (*directory.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.patients.get(id)
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, errs.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *PatientRepo) List(ctx context.Context, match func(*directory.Patient) bool) ([]*directory.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copySlice(r.s.patients.list(match)), nil
}

// DeleteCascade removes the patient and every appointment referencing it in
// one critical section; no reader can see the patient gone while its
// appointments remain. Missing ids are a no-op.
func (r *PatientRepo) DeleteCascade(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	if !r.s.patients.remove(id) {
		r.s.mu.Unlock()
		return 0, nil
	}
	removed := cascadeRemove(r.s.appointments, func(a *scheduling.Appointment) bool {
		return a.PatientID == id
	})
	patients := copySlice(r.s.patients.list(nil))
	appts := copySlice(r.s.appointments.list(nil))
	r.s.mu.Unlock()

	r.s.saveSnapshot(ctx, KeyPatients, patients)
	r.s.saveSnapshot(ctx, KeyAppointments, appts)
	return removed, nil
}

type PractitionerRepo struct {
	s *EntityStore
}

var _ directory.PractitionerRepository = (*PractitionerRepo)(nil)

func (r *PractitionerRepo) Upsert(ctx context.Context, p *directory.Practitioner) error {
	if p.ID == "" {
		p.ID = newID("d")
	}
	cp := *p
	r.s.mu.Lock()
	r.s.practitioners.upsert(&cp)
	items := copySlice(r.s.practitioners.list(nil))
	r.s.mu.Unlock()
	r.s.saveSnapshot(ctx, KeyPractitioners, items)
	return nil
}

func (r *PractitionerRepo) Get(ctx context.Context, id string) (*directory.Practitioner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.practitioners.get(id)
	if !ok {
		return nil, fmt.Errorf("practitioner %s: %w", id, errs.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *PractitionerRepo) List(ctx context.Context, match func(*directory.Practitioner) bool) ([]*directory.Practitioner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copySlice(r.s.practitioners.list(match)), nil
}

func (r *PractitionerRepo) DeleteCascade(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	if !r.s.practitioners.remove(id) {
		r.s.mu.Unlock()
		return 0, nil
	}
	removed := cascadeRemove(r.s.appointments, func(a *scheduling.Appointment) bool {
		return a.DoctorID == id
	})
	practitioners := copySlice(r.s.practitioners.list(nil))
	appts := copySlice(r.s.appointments.list(nil))
	r.s.mu.Unlock()

	r.s.saveSnapshot(ctx, KeyPractitioners, practitioners)
	r.s.saveSnapshot(ctx, KeyAppointments, appts)
	return removed, nil
}

type AppointmentRepo struct {
	s *EntityStore
}

var _ scheduling.AppointmentRepository = (*AppointmentRepo)(nil)

func (r *AppointmentRepo) Upsert(ctx context.Context, a *scheduling.Appointment) error {
	if a.ID == "" {
		a.ID = newID("a")
	}
	cp := *a
	r.s.mu.Lock()
	r.s.appointments.upsert(&cp)
	items := copySlice(r.s.appointments.list(nil))
	r.s.mu.Unlock()
	r.s.saveSnapshot(ctx, KeyAppointments, items)
	return nil
}

func (r *AppointmentRepo) Get(ctx context.Context, id string) (*scheduling.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments.get(id)
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, errs.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (r *AppointmentRepo) List(ctx context.Context, match func(*scheduling.Appointment) bool) ([]*scheduling.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copySlice(r.s.appointments.list(match)), nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	removed := r.s.appointments.remove(id)
	var items []*scheduling.Appointment
	if removed {
		items = copySlice(r.s.appointments.list(nil))
	}
	r.s.mu.Unlock()
	if removed {
		r.s.saveSnapshot(ctx, KeyAppointments, items)
	}
	return nil
}

type RecordRepo struct {
	s *EntityStore
}

var _ records.RecordRepository = (*RecordRepo)(nil)

func (r *RecordRepo) Upsert(ctx context.Context, rec *records.MedicalRecord) error {
	if rec.ID == "" {
		rec.ID = newID("r")
	}
	cp := *rec
	r.s.mu.Lock()
	r.s.records.upsert(&cp)
	items := copySlice(r.s.records.list(nil))
	r.s.mu.Unlock()
	r.s.saveSnapshot(ctx, KeyRecords, items)
	return nil
}

func (r *RecordRepo) Get(ctx context.Context, id string) (*records.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.records.get(id)
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, errs.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (r *RecordRepo) List(ctx context.Context, match func(*records.MedicalRecord) bool) ([]*records.MedicalRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copySlice(r.s.records.list(match)), nil
}

// cascadeRemove deletes every matching entity and reports how many went.
// Callers must hold the write lock.
func cascadeRemove[T Entity](c *collection[T], match func(T) bool) int {
	var doomed []string
	for _, item := range c.list(nil) {
		if match(item) {
			doomed = append(doomed, item.EntityID())
		}
	}
	for _, id := range doomed {
		c.remove(id)
	}
	return len(doomed)
}
