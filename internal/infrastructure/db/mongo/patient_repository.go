package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

const patientCollection = "patients"

type PatientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{coll: db.Collection(patientCollection)}
}

func (r *PatientRepository) List(ctx context.Context) ([]domain.Patient, error) {
	return r.find(ctx, bson.M{})
}

func (r *PatientRepository) ListByPractitioner(ctx context.Context, practitionerID string) ([]domain.Patient, error) {
	return r.find(ctx, bson.M{"practitioner_id": practitionerID})
}

func (r *PatientRepository) find(ctx context.Context, filter bson.M) ([]domain.Patient, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find patients: %w", err)
	}
	defer cur.Close(ctx)

	var patients []domain.Patient
	if err := cur.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return patients, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	var patient domain.Patient
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&patient); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &patient, nil
}

func (r *PatientRepository) Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, patient); err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return patient, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": patient.ID}, patient)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) CountByPractitioner(ctx context.Context, practitionerID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"practitioner_id": practitionerID,
		"status":          domain.StatusActive,
	})
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *PatientRepository) CountByStatus(ctx context.Context, status domain.PersonStatus) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}
