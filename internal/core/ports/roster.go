package ports

import (
	"context"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// PatientRepository defines persistence for the patient roster.
type PatientRepository interface {
	List(ctx context.Context) ([]domain.Patient, error)
	ListByPractitioner(ctx context.Context, practitionerID string) ([]domain.Patient, error)
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)
	Update(ctx context.Context, patient *domain.Patient) error
	Delete(ctx context.Context, id string) error
	CountByPractitioner(ctx context.Context, practitionerID string) (int64, error)
	CountByStatus(ctx context.Context, status domain.PersonStatus) (int64, error)
}

// PractitionerRepository defines persistence for the practitioner roster.
type PractitionerRepository interface {
	List(ctx context.Context) ([]domain.Practitioner, error)
	FindByID(ctx context.Context, id string) (*domain.Practitioner, error)
	Create(ctx context.Context, practitioner *domain.Practitioner) (*domain.Practitioner, error)
	Update(ctx context.Context, practitioner *domain.Practitioner) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status domain.PersonStatus) (int64, error)
}

// RosterService manages both rosters and enforces assignment capacity.
type RosterService interface {
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	PatientsOf(ctx context.Context, practitionerID string) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, patient *domain.Patient) error
	DeletePatient(ctx context.Context, id string) error

	ListPractitioners(ctx context.Context) ([]domain.Practitioner, error)
	CreatePractitioner(ctx context.Context, practitioner *domain.Practitioner) (*domain.Practitioner, error)
	UpdatePractitioner(ctx context.Context, practitioner *domain.Practitioner) error
	DeletePractitioner(ctx context.Context, id string) error
}
