package directory

import (
	"context"
	"strings"
	"time"

	"github.com/carebook/carebook/internal/errs"
)

type Service struct {
	patients      PatientRepository
	practitioners PractitionerRepository
}

func NewService(patients PatientRepository, practitioners PractitionerRepository) *Service {
	return &Service{patients: patients, practitioners: practitioners}
}

func validStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

// CreatePatient validates the required fields, defaults status and the
// registration date, and inserts the patient.
func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return &errs.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(p.Email) == "" {
		return &errs.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatus(p.Status) {
		return &errs.ValidationError{Field: "status", Reason: "must be Active or Inactive"}
	}
	if p.RegistrationDate == "" {
		p.RegistrationDate = time.Now().Format("2006-01-02")
	}
	return s.patients.Upsert(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.patients.Get(ctx, id)
}

// ListPatients returns patients in insertion order, optionally narrowed by a
// case-insensitive substring match on name or email.
func (s *Service) ListPatients(ctx context.Context, query string) ([]*Patient, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.patients.List(ctx, nil)
	}
	return s.patients.List(ctx, func(p *Patient) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Email), q)
	})
}

// UpdatePatient merges the set fields of the partial update. Name and email
// stay required, so clearing either to empty is rejected; the optional
// fields may be cleared.
func (s *Service) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error) {
	p, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, &errs.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		p.Name = *upd.Name
	}
	if upd.Email != nil {
		if strings.TrimSpace(*upd.Email) == "" {
			return nil, &errs.ValidationError{Field: "email", Reason: "must not be empty"}
		}
		p.Email = *upd.Email
	}
	if upd.Status != nil {
		if !validStatus(*upd.Status) {
			return nil, &errs.ValidationError{Field: "status", Reason: "must be Active or Inactive"}
		}
		p.Status = *upd.Status
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	if upd.DateOfBirth != nil {
		p.DateOfBirth = *upd.DateOfBirth
	}
	if upd.Address != nil {
		p.Address = *upd.Address
	}
	if upd.EmergencyContact != nil {
		p.EmergencyContact = *upd.EmergencyContact
	}
	if upd.EmergencyPhone != nil {
		p.EmergencyPhone = *upd.EmergencyPhone
	}
	if upd.BloodType != nil {
		p.BloodType = *upd.BloodType
	}
	if upd.Allergies != nil {
		p.Allergies = *upd.Allergies
	}
	if upd.MedicalHistory != nil {
		p.MedicalHistory = *upd.MedicalHistory
	}
	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePatient removes the patient and cascades to every appointment that
// references it. The cascade is atomic; it returns the number of
// appointments removed alongside the patient.
func (s *Service) DeletePatient(ctx context.Context, id string) (int, error) {
	return s.patients.DeleteCascade(ctx, id)
}

func (s *Service) CreatePractitioner(ctx context.Context, p *Practitioner) error {
	if strings.TrimSpace(p.Name) == "" {
		return &errs.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(p.Email) == "" {
		return &errs.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatus(p.Status) {
		return &errs.ValidationError{Field: "status", Reason: "must be Active or Inactive"}
	}
	if p.RegistrationDate == "" {
		p.RegistrationDate = time.Now().Format("2006-01-02")
	}
	return s.practitioners.Upsert(ctx, p)
}

func (s *Service) GetPractitioner(ctx context.Context, id string) (*Practitioner, error) {
	return s.practitioners.Get(ctx, id)
}

// ListPractitioners filters by a case-insensitive substring on name, email or
// specialization.
func (s *Service) ListPractitioners(ctx context.Context, query string) ([]*Practitioner, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.practitioners.List(ctx, nil)
	}
	return s.practitioners.List(ctx, func(p *Practitioner) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Email), q) ||
			strings.Contains(strings.ToLower(p.Specialization), q)
	})
}

func (s *Service) UpdatePractitioner(ctx context.Context, id string, upd PractitionerUpdate) (*Practitioner, error) {
	p, err := s.practitioners.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, &errs.ValidationError{Field: "name", Reason: "must not be empty"}
		}
		p.Name = *upd.Name
	}
	if upd.Email != nil {
		if strings.TrimSpace(*upd.Email) == "" {
			return nil, &errs.ValidationError{Field: "email", Reason: "must not be empty"}
		}
		p.Email = *upd.Email
	}
	if upd.Status != nil {
		if !validStatus(*upd.Status) {
			return nil, &errs.ValidationError{Field: "status", Reason: "must be Active or Inactive"}
		}
		p.Status = *upd.Status
	}
	if upd.Phone != nil {
		p.Phone = *upd.Phone
	}
	if upd.Specialization != nil {
		p.Specialization = *upd.Specialization
	}
	if upd.ConsultationHours != nil {
		p.ConsultationHours = *upd.ConsultationHours
	}
	if upd.Experience != nil {
		p.Experience = *upd.Experience
	}
	if upd.Education != nil {
		p.Education = *upd.Education
	}
	if err := s.practitioners.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePractitioner removes the practitioner and cascades to its
// appointments, the same contract as DeletePatient.
func (s *Service) DeletePractitioner(ctx context.Context, id string) (int, error) {
	return s.practitioners.DeleteCascade(ctx, id)
}
