package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/api/metrics"
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// ScheduleService manages the appointment lifecycle and the therapy session
// log produced from completed appointments.
type ScheduleService struct {
	appointments ports.AppointmentRepository
	sessions     ports.TherapySessionRepository
	log          zerolog.Logger
}

func NewScheduleService(appointments ports.AppointmentRepository, sessions ports.TherapySessionRepository, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{appointments: appointments, sessions: sessions, log: log}
}

// ListFor scopes the appointment list to what the identity may see.
func (s *ScheduleService) ListFor(ctx context.Context, identity domain.Identity) ([]domain.Appointment, error) {
	switch identity.Role {
	case domain.RoleAdmin:
		return s.appointments.List(ctx)
	case domain.RolePractitioner:
		return s.appointments.ListByPractitioner(ctx, identity.ID, time.Time{}, time.Time{})
	case domain.RolePatient:
		return s.appointments.ListByPatient(ctx, identity.ID)
	}
	return nil, domain.ErrRoleForbidden
}

func (s *ScheduleService) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	appointment.Status = domain.AppointmentScheduled
	if appointment.DurationMin <= 0 {
		appointment.DurationMin = 50
	}

	created, err := s.appointments.Create(ctx, appointment)
	if err != nil {
		return nil, err
	}

	metrics.AppointmentsCreatedTotal.WithLabelValues(created.Type).Inc()
	return created, nil
}

// Transition moves an appointment along the closed status machine.
func (s *ScheduleService) Transition(ctx context.Context, id string, next domain.AppointmentStatus) error {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !appointment.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	return s.appointments.UpdateStatus(ctx, id, next, appointment.Notes)
}

// Complete finishes a confirmed appointment and records the therapy session.
func (s *ScheduleService) Complete(ctx context.Context, id, notes string, outcomes []string) (*domain.TherapySession, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.Status.CanTransitionTo(domain.AppointmentCompleted) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.appointments.UpdateStatus(ctx, id, domain.AppointmentCompleted, notes); err != nil {
		return nil, err
	}

	session := &domain.TherapySession{
		AppointmentID:  appointment.ID,
		PatientID:      appointment.PatientID,
		PractitionerID: appointment.PractitionerID,
		HeldAt:         appointment.StartsAt,
		DurationMin:    appointment.DurationMin,
		Notes:          notes,
		Outcomes:       outcomes,
	}

	recorded, err := s.sessions.Insert(ctx, session)
	if err != nil {
		// The appointment is already completed; the log entry is what failed.
		s.log.Error().Err(err).Str("appointment_id", id).Msg("therapy session record failed")
		return nil, err
	}
	return recorded, nil
}

func (s *ScheduleService) SessionLog(ctx context.Context) ([]domain.TherapySession, error) {
	return s.sessions.List(ctx)
}

func (s *ScheduleService) SessionsOfPatient(ctx context.Context, patientID string) ([]domain.TherapySession, error) {
	return s.sessions.ListByPatient(ctx, patientID)
}
