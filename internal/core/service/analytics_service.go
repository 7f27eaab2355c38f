package service

import (
	"context"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// AnalyticsService derives dashboard numbers from the repositories; nothing
// here is precomputed or cached.
type AnalyticsService struct {
	patients      ports.PatientRepository
	practitioners ports.PractitionerRepository
	appointments  ports.AppointmentRepository
	sessions      ports.TherapySessionRepository
}

func NewAnalyticsService(
	patients ports.PatientRepository,
	practitioners ports.PractitionerRepository,
	appointments ports.AppointmentRepository,
	sessions ports.TherapySessionRepository,
) *AnalyticsService {
	return &AnalyticsService{
		patients:      patients,
		practitioners: practitioners,
		appointments:  appointments,
		sessions:      sessions,
	}
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	var err error
	if stats.ActivePatients, err = s.patients.CountByStatus(ctx, domain.StatusActive); err != nil {
		return nil, err
	}
	if stats.ActivePractitioners, err = s.practitioners.CountByStatus(ctx, domain.StatusActive); err != nil {
		return nil, err
	}
	if stats.ScheduledAppointments, err = s.appointments.CountByStatus(ctx, domain.AppointmentScheduled); err != nil {
		return nil, err
	}
	if stats.CompletedSessions, err = s.sessions.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
