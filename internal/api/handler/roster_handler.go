package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// RosterHandler serves the admin roster views for practitioners and patients.
type RosterHandler struct {
	roster ports.RosterService
}

func NewRosterHandler(roster ports.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

type practitionerRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Specialization string `json:"specialization" validate:"required"`
	LicenseNumber  string `json:"license_number" validate:"required"`
	Phone          string `json:"phone"`
	MaxPatients    int    `json:"max_patients" validate:"min=0"`
}

func (r practitionerRequest) toDomain() *domain.Practitioner {
	return &domain.Practitioner{
		Name:           r.Name,
		Email:          r.Email,
		Specialization: r.Specialization,
		LicenseNumber:  r.LicenseNumber,
		Phone:          r.Phone,
		MaxPatients:    r.MaxPatients,
	}
}

type patientRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"date_of_birth"`
	EmergencyContact string `json:"emergency_contact"`
	PractitionerID   string `json:"practitioner_id" validate:"required"`
}

func (r patientRequest) toDomain() *domain.Patient {
	return &domain.Patient{
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		DateOfBirth:      r.DateOfBirth,
		EmergencyContact: r.EmergencyContact,
		PractitionerID:   r.PractitionerID,
	}
}

// ListPractitioners returns the full practitioner roster.
//
// @Summary      List practitioners
// @Tags         roster
// @Produce      json
// @Success      200  {array}  domain.Practitioner
// @Router       /admin/practitioners [get]
func (h *RosterHandler) ListPractitioners(c echo.Context) error {
	practitioners, err := h.roster.ListPractitioners(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, practitioners)
}

func (h *RosterHandler) CreatePractitioner(c echo.Context) error {
	var req practitionerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.roster.CreatePractitioner(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *RosterHandler) UpdatePractitioner(c echo.Context) error {
	var req practitionerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	practitioner := req.toDomain()
	practitioner.ID = c.Param("id")
	practitioner.Status = domain.StatusActive
	if err := h.roster.UpdatePractitioner(c.Request().Context(), practitioner); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, practitioner)
}

func (h *RosterHandler) DeletePractitioner(c echo.Context) error {
	if err := h.roster.DeletePractitioner(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPatients returns the full patient roster.
//
// @Summary      List patients
// @Tags         roster
// @Produce      json
// @Success      200  {array}  domain.Patient
// @Router       /admin/patients [get]
func (h *RosterHandler) ListPatients(c echo.Context) error {
	patients, err := h.roster.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *RosterHandler) CreatePatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.roster.CreatePatient(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *RosterHandler) UpdatePatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient := req.toDomain()
	patient.ID = c.Param("id")
	patient.Status = domain.StatusActive
	if err := h.roster.UpdatePatient(c.Request().Context(), patient); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *RosterHandler) DeletePatient(c echo.Context) error {
	if err := h.roster.DeletePatient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
