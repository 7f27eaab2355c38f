package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// RosterService manages the patient and practitioner rosters. Assignment of a
// patient to a practitioner is capacity-checked against max_patients.
type RosterService struct {
	patients      ports.PatientRepository
	practitioners ports.PractitionerRepository
	log           zerolog.Logger
}

func NewRosterService(patients ports.PatientRepository, practitioners ports.PractitionerRepository, log zerolog.Logger) *RosterService {
	return &RosterService{patients: patients, practitioners: practitioners, log: log}
}

func (s *RosterService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.patients.List(ctx)
}

func (s *RosterService) PatientsOf(ctx context.Context, practitionerID string) ([]domain.Patient, error) {
	return s.patients.ListByPractitioner(ctx, practitionerID)
}

func (s *RosterService) CreatePatient(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	if err := s.checkCapacity(ctx, patient.PractitionerID); err != nil {
		return nil, err
	}

	patient.Status = domain.StatusActive
	patient.CreatedAt = time.Now().UTC()

	created, err := s.patients.Create(ctx, patient)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("patient_id", created.ID).
		Str("practitioner_id", created.PractitionerID).
		Msg("patient added to roster")
	return created, nil
}

func (s *RosterService) UpdatePatient(ctx context.Context, patient *domain.Patient) error {
	existing, err := s.patients.FindByID(ctx, patient.ID)
	if err != nil {
		return err
	}
	// Reassignment to a different practitioner re-checks capacity.
	if patient.PractitionerID != existing.PractitionerID {
		if err := s.checkCapacity(ctx, patient.PractitionerID); err != nil {
			return err
		}
	}
	patient.CreatedAt = existing.CreatedAt
	return s.patients.Update(ctx, patient)
}

func (s *RosterService) DeletePatient(ctx context.Context, id string) error {
	return s.patients.Delete(ctx, id)
}

func (s *RosterService) ListPractitioners(ctx context.Context) ([]domain.Practitioner, error) {
	return s.practitioners.List(ctx)
}

func (s *RosterService) CreatePractitioner(ctx context.Context, practitioner *domain.Practitioner) (*domain.Practitioner, error) {
	if practitioner.MaxPatients <= 0 {
		practitioner.MaxPatients = 20
	}
	practitioner.Status = domain.StatusActive
	return s.practitioners.Create(ctx, practitioner)
}

func (s *RosterService) UpdatePractitioner(ctx context.Context, practitioner *domain.Practitioner) error {
	if _, err := s.practitioners.FindByID(ctx, practitioner.ID); err != nil {
		return err
	}
	return s.practitioners.Update(ctx, practitioner)
}

func (s *RosterService) DeletePractitioner(ctx context.Context, id string) error {
	return s.practitioners.Delete(ctx, id)
}

// checkCapacity verifies the practitioner exists, is active, and has room for
// one more patient.
func (s *RosterService) checkCapacity(ctx context.Context, practitionerID string) error {
	practitioner, err := s.practitioners.FindByID(ctx, practitionerID)
	if err != nil {
		return err
	}
	if practitioner.Status != domain.StatusActive {
		return domain.ErrPractitionerNotFound
	}

	assigned, err := s.patients.CountByPractitioner(ctx, practitionerID)
	if err != nil {
		return err
	}
	if assigned >= int64(practitioner.MaxPatients) {
		return domain.ErrPractitionerAtCapacity
	}
	return nil
}
