// Package records manages the append-only medical record log. Records are
// written by practitioners after an encounter and are never edited or
// deleted; corrections are new records.
package records

// MedicalRecord is one clinical note for a patient. DoctorName is a snapshot
// frozen when the record is written. Diagnosis and Prescription are both
// required; a record missing either is rejected.
type MedicalRecord struct {
	ID           string `json:"id"`
	PatientID    string `json:"patient_id"`
	Date         string `json:"date"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Notes        string `json:"notes,omitempty"`
	DoctorName   string `json:"doctor_name,omitempty"`
}

// EntityID implements store.Entity.
func (r *MedicalRecord) EntityID() string { return r.ID }
