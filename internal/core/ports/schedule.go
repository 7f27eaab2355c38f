package ports

import (
	"context"
	"time"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// AppointmentRepository defines persistence for appointments.
type AppointmentRepository interface {
	List(ctx context.Context) ([]domain.Appointment, error)
	ListByPractitioner(ctx context.Context, practitionerID string, from, to time.Time) ([]domain.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus, notes string) error
	CountByStatus(ctx context.Context, status domain.AppointmentStatus) (int64, error)
}

// TherapySessionRepository defines persistence for completed session records.
type TherapySessionRepository interface {
	List(ctx context.Context) ([]domain.TherapySession, error)
	ListByPatient(ctx context.Context, patientID string) ([]domain.TherapySession, error)
	Insert(ctx context.Context, session *domain.TherapySession) (*domain.TherapySession, error)
	Count(ctx context.Context) (int64, error)
}

// ScheduleService manages the appointment lifecycle and the session log.
type ScheduleService interface {
	// ListFor returns the appointments the given identity may see: admins see
	// everything, practitioners and patients only their own.
	ListFor(ctx context.Context, identity domain.Identity) ([]domain.Appointment, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	Transition(ctx context.Context, id string, next domain.AppointmentStatus) error
	// Complete transitions the appointment to completed and records the
	// resulting therapy session.
	Complete(ctx context.Context, id, notes string, outcomes []string) (*domain.TherapySession, error)
	SessionLog(ctx context.Context) ([]domain.TherapySession, error)
	SessionsOfPatient(ctx context.Context, patientID string) ([]domain.TherapySession, error)
}
