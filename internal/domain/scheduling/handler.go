package scheduling

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carebook/carebook/internal/errs"
	"github.com/carebook/carebook/internal/platform/middleware"
	"github.com/carebook/carebook/pkg/pagination"
)

type Handler struct {
	svc     *Service
	booking *BookingController
}

func NewHandler(svc *Service, booking *BookingController) *Handler {
	return &Handler{svc: svc, booking: booking}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.POST("/appointments/:id/transition", h.TransitionAppointment)

	api.GET("/practitioners/search", h.SearchPractitioners)
	api.POST("/bookings/validate", h.ValidateBooking)
	api.POST("/bookings", h.ConfirmBooking)
}

type createAppointmentRequest struct {
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	Reason    string    `json:"reason"`
	Datetime  time.Time `json:"datetime"`
	Status    string    `json:"status"`
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	initial := StatusPending
	if req.Status != "" {
		st, ok := ParseStatus(req.Status)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+req.Status)
		}
		initial = st
	}
	a, err := h.svc.CreateAppointment(c.Request().Context(), req.PatientID, req.DoctorID, req.Reason, req.Datetime, initial)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	a, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	var items []*Appointment
	var err error
	switch {
	case c.QueryParam("patient_id") != "":
		items, err = h.svc.ListByPatient(ctx, c.QueryParam("patient_id"))
	case c.QueryParam("practitioner_id") != "":
		items, err = h.svc.ListByPractitioner(ctx, c.QueryParam("practitioner_id"))
	case c.QueryParam("upcoming") == "true":
		items, err = h.svc.ListUpcoming(ctx, time.Now())
	default:
		items, err = h.svc.List(ctx)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	page := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(items), pg.Limit, pg.Offset))
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var upd AppointmentUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type transitionRequest struct {
	Status string `json:"status"`
}

// TransitionAppointment applies the role filter first and only then the
// lifecycle table, so a role rejection is a 403 and an illegal move a 409.
func (h *Handler) TransitionAppointment(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	to, ok := ParseStatus(req.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+req.Status)
	}

	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	role := middleware.Role(c)
	if CanTransition(a.Status, to) && !RoleCanTransition(role, a.Status, to) {
		return echo.NewHTTPError(http.StatusForbidden, "role "+role+" may not set status "+string(to))
	}
	a, err = h.svc.Transition(ctx, c.Param("id"), to)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) SearchPractitioners(c echo.Context) error {
	items, err := h.booking.FindPractitioners(c.Request().Context(), c.QueryParam("q"), c.QueryParam("specialization"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pg := pagination.FromContext(c)
	page := pagination.Page(items, pg)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, len(items), pg.Limit, pg.Offset))
}

type bookingRequest struct {
	PatientID      string    `json:"patient_id"`
	PractitionerID string    `json:"practitioner_id"`
	Datetime       time.Time `json:"datetime"`
	Reason         string    `json:"reason"`
}

// ValidateBooking runs steps one and two of the wizard without committing
// anything; the returned draft is what a confirm would create from.
func (h *Handler) ValidateBooking(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft, err := h.booking.StartDraft(c.Request().Context(), req.PractitionerID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	if err := h.booking.SelectSlot(draft, req.Datetime, req.Reason); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, draft)
}

// ConfirmBooking runs the whole wizard and commits the Pending appointment.
func (h *Handler) ConfirmBooking(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	draft, err := h.booking.StartDraft(ctx, req.PractitionerID)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	if err := h.booking.SelectSlot(draft, req.Datetime, req.Reason); err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	a, err := h.booking.Confirm(ctx, req.PatientID, draft)
	if err != nil {
		return echo.NewHTTPError(errs.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}
