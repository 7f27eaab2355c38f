package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// ScheduleHandler serves appointments and the admin therapy-session log.
type ScheduleHandler struct {
	schedule ports.ScheduleService
}

func NewScheduleHandler(schedule ports.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

type appointmentRequest struct {
	PatientID      string    `json:"patient_id" validate:"required"`
	PractitionerID string    `json:"practitioner_id" validate:"required"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	DurationMin    int       `json:"duration_min" validate:"min=0"`
	Type           string    `json:"type" validate:"required"`
	Room           string    `json:"room"`
}

type transitionRequest struct {
	Status   string   `json:"status" validate:"required,oneof=confirmed completed cancelled"`
	Notes    string   `json:"notes"`
	Outcomes []string `json:"outcomes"`
}

// List returns the appointments visible to the session identity: admins see
// everything, practitioners and patients only their own.
//
// @Summary      List appointments
// @Tags         schedule
// @Produce      json
// @Success      200  {array}  domain.Appointment
// @Router       /appointments [get]
func (h *ScheduleHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	appointments, err := h.schedule.ListFor(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointments)
}

func (h *ScheduleHandler) Create(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.schedule.Create(c.Request().Context(), &domain.Appointment{
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		StartsAt:       req.StartsAt,
		DurationMin:    req.DurationMin,
		Type:           req.Type,
		Room:           req.Room,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Transition updates an appointment's status. Completing an appointment also
// records the therapy session, so completed transitions return the record.
func (h *ScheduleHandler) Transition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := c.Param("id")
	ctx := c.Request().Context()

	if domain.AppointmentStatus(req.Status) == domain.AppointmentCompleted {
		session, err := h.schedule.Complete(ctx, id, req.Notes, req.Outcomes)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, session)
	}

	if err := h.schedule.Transition(ctx, id, domain.AppointmentStatus(req.Status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SessionLog returns every recorded therapy session, admin only.
func (h *ScheduleHandler) SessionLog(c echo.Context) error {
	sessions, err := h.schedule.SessionLog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}
