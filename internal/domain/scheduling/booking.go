package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/carebook/carebook/internal/domain/directory"
	"github.com/carebook/carebook/internal/errs"
)

// BookingDraft is the working state of the three step booking workflow.
// Nothing is written to the store until Confirm; an abandoned draft leaves
// no trace. Re-entering a step simply overwrites the fields that step owns.
type BookingDraft struct {
	PractitionerID   string    `json:"practitioner_id"`
	PractitionerName string    `json:"practitioner_name"`
	Specialization   string    `json:"specialization,omitempty"`
	Datetime         time.Time `json:"datetime,omitempty"`
	Reason           string    `json:"reason,omitempty"`
}

// BookingController drives the patient booking wizard over the scheduling
// service. The clock is injected so the future-datetime rule is testable.
type BookingController struct {
	svc *Service
	now func() time.Time
}

func NewBookingController(svc *Service) *BookingController {
	return &BookingController{svc: svc, now: time.Now}
}

// FindPractitioners is step one: search the active practitioners.
func (c *BookingController) FindPractitioners(ctx context.Context, query, specialization string) ([]*directory.Practitioner, error) {
	return c.svc.FindPractitioners(ctx, query, specialization)
}

// StartDraft begins a draft against a chosen practitioner. The practitioner
// must exist and be active; picking an inactive one is rejected here rather
// than surfacing later at confirm time.
func (c *BookingController) StartDraft(ctx context.Context, practitionerID string) (*BookingDraft, error) {
	p, err := c.svc.practitioners.Get(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	if p.Status != directory.StatusActive {
		return nil, &errs.ValidationError{Field: "practitioner", Reason: "practitioner is not active"}
	}
	return &BookingDraft{
		PractitionerID:   p.ID,
		PractitionerName: p.Name,
		Specialization:   p.Specialization,
	}, nil
}

// SelectSlot is step two: record the requested time and reason on the draft.
// The datetime must be strictly in the future at submission time and the
// reason must be non-empty. On error the draft is left untouched.
func (c *BookingController) SelectSlot(draft *BookingDraft, at time.Time, reason string) error {
	if draft == nil || draft.PractitionerID == "" {
		return &errs.ValidationError{Field: "practitioner", Reason: "no practitioner selected"}
	}
	if !at.After(c.now()) {
		return &errs.ValidationError{Field: "datetime", Reason: "must be in the future"}
	}
	if strings.TrimSpace(reason) == "" {
		return &errs.ValidationError{Field: "reason", Reason: "must not be empty"}
	}
	draft.Datetime = at
	draft.Reason = reason
	return nil
}

// Confirm is step three: create the Pending appointment from a completed
// draft. This is the only point at which the workflow writes anything.
func (c *BookingController) Confirm(ctx context.Context, patientID string, draft *BookingDraft) (*Appointment, error) {
	if draft == nil || draft.PractitionerID == "" {
		return nil, &errs.ValidationError{Field: "practitioner", Reason: "no practitioner selected"}
	}
	if draft.Datetime.IsZero() || strings.TrimSpace(draft.Reason) == "" {
		return nil, &errs.ValidationError{Field: "draft", Reason: "slot and reason must be chosen before confirming"}
	}
	return c.svc.CreateAppointment(ctx, patientID, draft.PractitionerID, draft.Reason, draft.Datetime, StatusPending)
}
