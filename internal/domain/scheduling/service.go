package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/errs"
)

type Service struct {
	appointments  AppointmentRepository
	patients      PatientDirectory
	practitioners PractitionerDirectory
}

func NewService(appts AppointmentRepository, patients PatientDirectory, practitioners PractitionerDirectory) *Service {
	return &Service{appointments: appts, patients: patients, practitioners: practitioners}
}

// CreateAppointment validates the references, freezes the name and
// specialization snapshots, and inserts a new appointment. The initial
// status is Pending for patient bookings and Confirmed for admin-created
// appointments; nothing else is a legal entry point into the lifecycle.
func (s *Service) CreateAppointment(ctx context.Context, patientID, doctorID, reason string, at time.Time, initial Status) (*Appointment, error) {
	if initial != StatusPending && initial != StatusConfirmed {
		return nil, &errs.ValidationError{Field: "status", Reason: "initial status must be Pending or Confirmed"}
	}
	if strings.TrimSpace(reason) == "" {
		return nil, &errs.ValidationError{Field: "reason", Reason: "must not be empty"}
	}
	if at.IsZero() {
		return nil, &errs.ValidationError{Field: "datetime", Reason: "must be set"}
	}

	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, &errs.ReferenceError{Entity: "patient", ID: patientID}
		}
		return nil, err
	}
	doctor, err := s.practitioners.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, &errs.ReferenceError{Entity: "practitioner", ID: doctorID}
		}
		return nil, err
	}

	a := &Appointment{
		PatientID:      patientID,
		DoctorID:       doctorID,
		PatientName:    patient.Name,
		DoctorName:     doctor.Name,
		Specialization: doctor.Specialization,
		Reason:         reason,
		Datetime:       at,
		Status:         initial,
	}
	if err := s.appointments.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.appointments.Get(ctx, id)
}

// List returns all appointments in insertion order.
func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	return s.appointments.List(ctx, nil)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return s.appointments.List(ctx, func(a *Appointment) bool { return a.PatientID == patientID })
}

func (s *Service) ListByPractitioner(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.appointments.List(ctx, func(a *Appointment) bool { return a.DoctorID == doctorID })
}

// ListUpcoming returns appointments scheduled strictly after now.
func (s *Service) ListUpcoming(ctx context.Context, now time.Time) ([]*Appointment, error) {
	return s.appointments.List(ctx, func(a *Appointment) bool { return a.Upcoming(now) })
}

// Update merges the provided non-status fields into the appointment. The
// reason stays required; the snapshot fields cannot be touched here.
func (s *Service) Update(ctx context.Context, id string, upd AppointmentUpdate) (*Appointment, error) {
	a, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Reason != nil {
		if strings.TrimSpace(*upd.Reason) == "" {
			return nil, &errs.ValidationError{Field: "reason", Reason: "must not be empty"}
		}
		a.Reason = *upd.Reason
	}
	if upd.Datetime != nil {
		if upd.Datetime.IsZero() {
			return nil, &errs.ValidationError{Field: "datetime", Reason: "must be set"}
		}
		a.Datetime = *upd.Datetime
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
	if err := s.appointments.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Transition moves the appointment along the lifecycle table. An illegal
// move returns IllegalTransitionError and writes nothing.
func (s *Service) Transition(ctx context.Context, id string, to Status) (*Appointment, error) {
	a, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a.Status, to); err != nil {
		return nil, err
	}
	a.Status = to
	if err := s.appointments.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the appointment regardless of its lifecycle state.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.appointments.Delete(ctx, id)
}

// FindPractitioners backs the first booking step: active practitioners whose
// name or specialization contains the free-text query, optionally narrowed
// by a specialization filter. Matching is case-insensitive substring.
func (s *Service) FindPractitioners(ctx context.Context, query, specialization string) ([]*directory.Practitioner, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	sp := strings.ToLower(strings.TrimSpace(specialization))
	return s.practitioners.List(ctx, func(p *directory.Practitioner) bool {
		if p.Status != directory.StatusActive {
			return false
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Specialization), q) {
			return false
		}
		if sp != "" && !strings.Contains(strings.ToLower(p.Specialization), sp) {
			return false
		}
		return true
	})
}
