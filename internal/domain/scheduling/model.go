// Package scheduling owns the appointment lifecycle: referentially checked
// creation, the status transition table, the patient booking workflow, and
// unconditional deletion.
package scheduling

import "time"

// Status is an appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus maps a wire string to a Status. The second return is false for
// anything outside the four lifecycle states.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Appointment is a booked encounter between a patient and a practitioner.
// PatientName, DoctorName and Specialization are snapshots copied from the
// referenced entities when the appointment is created; they are never
// recomputed, so later edits to the patient or practitioner do not change
// what was true at booking time.
type Appointment struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	DoctorID       string    `json:"doctor_id"`
	PatientName    string    `json:"patient_name"`
	DoctorName     string    `json:"doctor_name"`
	Specialization string    `json:"specialization,omitempty"`
	Reason         string    `json:"reason"`
	Datetime       time.Time `json:"datetime"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
}

// EntityID implements store.Entity.
func (a *Appointment) EntityID() string { return a.ID }

// Upcoming reports whether the appointment is scheduled after now.
func (a *Appointment) Upcoming(now time.Time) bool {
	return a.Datetime.After(now)
}

// AppointmentUpdate carries a partial edit of the non-status fields. Status
// changes go through Service.Transition, never through an update.
type AppointmentUpdate struct {
	Reason   *string    `json:"reason,omitempty"`
	Datetime *time.Time `json:"datetime,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}
