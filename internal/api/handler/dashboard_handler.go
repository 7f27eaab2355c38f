package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// DashboardHandler serves the role-specific dashboard views and the neutral
// root, which only redirects to the session role's home.
type DashboardHandler struct {
	analytics ports.AnalyticsService
	roster    ports.RosterService
	schedule  ports.ScheduleService
}

func NewDashboardHandler(analytics ports.AnalyticsService, roster ports.RosterService, schedule ports.ScheduleService) *DashboardHandler {
	return &DashboardHandler{analytics: analytics, roster: roster, schedule: schedule}
}

// Root redirects an authenticated user to their role home. Anonymous users
// never reach it; the guard sends them to login first.
func (h *DashboardHandler) Root(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, identity.Role.HomePath())
}

// Admin serves the admin dashboard: practice-wide aggregates.
//
// @Summary      Admin dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  domain.DashboardStats
// @Router       /admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	stats, err := h.analytics.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

type practitionerDashboard struct {
	Today    []domain.Appointment `json:"today"`
	Patients []domain.Patient     `json:"patients"`
}

// Practitioner serves the practitioner dashboard: today's appointments and
// the practitioner's own patient list.
func (h *DashboardHandler) Practitioner(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	appointments, err := h.schedule.ListFor(ctx, identity)
	if err != nil {
		return err
	}
	patients, err := h.roster.PatientsOf(ctx, identity.ID)
	if err != nil {
		return err
	}

	today := make([]domain.Appointment, 0, len(appointments))
	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, a := range appointments {
		if !a.StartsAt.Before(dayStart) && a.StartsAt.Before(dayEnd) {
			today = append(today, a)
		}
	}

	return c.JSON(http.StatusOK, practitionerDashboard{Today: today, Patients: patients})
}

type patientDashboard struct {
	Upcoming []domain.Appointment    `json:"upcoming"`
	History  []domain.TherapySession `json:"history"`
}

// Patient serves the patient dashboard: upcoming appointments and the
// patient's session history.
func (h *DashboardHandler) Patient(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	appointments, err := h.schedule.ListFor(ctx, identity)
	if err != nil {
		return err
	}
	history, err := h.schedule.SessionsOfPatient(ctx, identity.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	upcoming := make([]domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.StartsAt.After(now) && a.Status != domain.AppointmentCancelled {
			upcoming = append(upcoming, a)
		}
	}

	return c.JSON(http.StatusOK, patientDashboard{Upcoming: upcoming, History: history})
}

// Settings returns the profile data for the settings view: name, email, role
// badge, avatar. Any authenticated role may reach it.
func (h *DashboardHandler) Settings(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}
