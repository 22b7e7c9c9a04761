package store

import (
	"time"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/domain/records"
	"github.com/carebook/carebook/internal/domain/scheduling"
)

// Seed builds the deterministic starter dataset. Appointment times are laid
// out relative to now (two today, one tomorrow, one the day after) so the
// upcoming filters have something to show on a fresh install.
func Seed(now time.Time) ([]*directory.Patient, []*directory.Practitioner, []*scheduling.Appointment, []*records.MedicalRecord) {
	at := func(dayOffset, hour, min int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+dayOffset, hour, min, 0, 0, now.Location())
	}

	patients := []*directory.Patient{
		{ID: "p-1001", Name: "John Carter", Email: "john.carter@example.com", RegistrationDate: "2024-01-15", Status: directory.StatusActive},
		{ID: "p-1002", Name: "Amelia Brown", Email: "amelia.brown@example.com", RegistrationDate: "2024-02-20", Status: directory.StatusActive},
		{ID: "p-1003", Name: "Wei Chen", Email: "wei.chen@example.com", RegistrationDate: "2024-03-10", Status: directory.StatusActive},
		{ID: "p-1004", Name: "Maria Garcia", Email: "maria.garcia@example.com", RegistrationDate: "2024-01-28", Status: directory.StatusActive},
		{ID: "p-1005", Name: "David Kim", Email: "david.kim@example.com", RegistrationDate: "2024-02-15", Status: directory.StatusInactive},
	}

	practitioners := []*directory.Practitioner{
		{ID: "d-2001", Name: "Dr. Sarah Johnson", Email: "sarah.johnson@health.com", Specialization: "Cardiology", RegistrationDate: "2023-06-15", Status: directory.StatusActive},
		{ID: "d-2002", Name: "Dr. Michael Chen", Email: "michael.chen@health.com", Specialization: "Neurology", RegistrationDate: "2023-08-22", Status: directory.StatusActive},
		{ID: "d-2003", Name: "Dr. Emily Rodriguez", Email: "emily.rodriguez@health.com", Specialization: "Pediatrics", RegistrationDate: "2023-11-10", Status: directory.StatusActive},
		{ID: "d-2004", Name: "Dr. James Wilson", Email: "james.wilson@health.com", Specialization: "Orthopedics", RegistrationDate: "2023-09-05", Status: directory.StatusInactive},
	}

	appointments := []*scheduling.Appointment{
		{
			ID: "a-3001", PatientID: "p-1001", DoctorID: "d-2001",
			PatientName: "John Carter", DoctorName: "Dr. Sarah Johnson", Specialization: "Cardiology",
			Reason: "Heart Checkup", Datetime: at(0, 10, 0), Status: scheduling.StatusConfirmed,
		},
		{
			ID: "a-3002", PatientID: "p-1002", DoctorID: "d-2002",
			PatientName: "Amelia Brown", DoctorName: "Dr. Michael Chen", Specialization: "Neurology",
			Reason: "Neurological Consultation", Datetime: at(0, 14, 30), Status: scheduling.StatusPending,
		},
		{
			ID: "a-3003", PatientID: "p-1003", DoctorID: "d-2003",
			PatientName: "Wei Chen", DoctorName: "Dr. Emily Rodriguez", Specialization: "Pediatrics",
			Reason: "Child Vaccination", Datetime: at(1, 9, 0), Status: scheduling.StatusConfirmed,
		},
		{
			ID: "a-3004", PatientID: "p-1004", DoctorID: "d-2001",
			PatientName: "Maria Garcia", DoctorName: "Dr. Sarah Johnson", Specialization: "Cardiology",
			Reason: "Follow-up Consultation", Datetime: at(2, 11, 0), Status: scheduling.StatusConfirmed,
		},
	}

	recs := []*records.MedicalRecord{
		{
			ID: "r-4001", PatientID: "p-1001", Date: "2024-01-15",
			Diagnosis: "Hypertension", Prescription: "Lisinopril 10mg daily",
			Notes: "Patient shows elevated blood pressure. Monitor weekly.", DoctorName: "Dr. Sarah Johnson",
		},
		{
			ID: "r-4002", PatientID: "p-1001", Date: "2024-02-20",
			Diagnosis: "Follow-up - Hypertension", Prescription: "Lisinopril 10mg daily, Amlodipine 5mg daily",
			Notes: "Blood pressure improved but still elevated. Added second medication.", DoctorName: "Dr. Sarah Johnson",
		},
		{
			ID: "r-4003", PatientID: "p-1002", Date: "2024-03-01",
			Diagnosis: "Migraine", Prescription: "Sumatriptan 50mg as needed",
			Notes: "Patient reports severe headaches. Prescribed abortive medication.", DoctorName: "Dr. Michael Chen",
		},
	}

	return patients, practitioners, appointments, recs
}

// HydrateSeed resets the store to the seed dataset.
func (s *EntityStore) HydrateSeed(now time.Time) {
	patients, practitioners, appointments, recs := Seed(now)
	s.Hydrate(patients, practitioners, appointments, recs)
}
