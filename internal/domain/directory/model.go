// Package directory manages the patient and practitioner registries: the
// entities every appointment and medical record refers to. It owns required
// -field validation, partial updates, and cascade deletion of dependent
// appointments.
package directory

// Entity status values shared by patients and practitioners.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Patient is a registered patient. Name and Email are required; the
// remaining profile fields are optional and filled in from the patient's
// profile page.
type Patient struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Address          string `json:"address,omitempty"`
	Status           string `json:"status"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	EmergencyPhone   string `json:"emergency_phone,omitempty"`
	BloodType        string `json:"blood_type,omitempty"`
	Allergies        string `json:"allergies,omitempty"`
	MedicalHistory   string `json:"medical_history,omitempty"`
	RegistrationDate string `json:"registration_date,omitempty"`
}

// EntityID implements store.Entity.
func (p *Patient) EntityID() string { return p.ID }

// Practitioner is a registered clinician. Name and Email are required.
type Practitioner struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Specialization    string `json:"specialization,omitempty"`
	Status            string `json:"status"`
	ConsultationHours string `json:"consultation_hours,omitempty"`
	Experience        string `json:"experience,omitempty"`
	Education         string `json:"education,omitempty"`
	RegistrationDate  string `json:"registration_date,omitempty"`
}

// EntityID implements store.Entity.
func (p *Practitioner) EntityID() string { return p.ID }

// PatientUpdate carries a partial patient edit. Nil fields are left
// untouched; a non-nil pointer replaces the field, including with the empty
// string for the optional fields.
type PatientUpdate struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"`
	Address          *string `json:"address,omitempty"`
	Status           *string `json:"status,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string `json:"emergency_phone,omitempty"`
	BloodType        *string `json:"blood_type,omitempty"`
	Allergies        *string `json:"allergies,omitempty"`
	MedicalHistory   *string `json:"medical_history,omitempty"`
}

// PractitionerUpdate carries a partial practitioner edit.
type PractitionerUpdate struct {
	Name              *string `json:"name,omitempty"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Specialization    *string `json:"specialization,omitempty"`
	Status            *string `json:"status,omitempty"`
	ConsultationHours *string `json:"consultation_hours,omitempty"`
	Experience        *string `json:"experience,omitempty"`
	Education         *string `json:"education,omitempty"`
}
