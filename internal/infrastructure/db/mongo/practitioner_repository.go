package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

const practitionerCollection = "practitioners"

type PractitionerRepository struct {
	coll *mongo.Collection
}

func NewPractitionerRepository(db *mongo.Database) *PractitionerRepository {
	return &PractitionerRepository{coll: db.Collection(practitionerCollection)}
}

func (r *PractitionerRepository) List(ctx context.Context) ([]domain.Practitioner, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find practitioners: %w", err)
	}
	defer cur.Close(ctx)

	var practitioners []domain.Practitioner
	if err := cur.All(ctx, &practitioners); err != nil {
		return nil, fmt.Errorf("decode practitioners: %w", err)
	}
	return practitioners, nil
}

func (r *PractitionerRepository) FindByID(ctx context.Context, id string) (*domain.Practitioner, error) {
	var practitioner domain.Practitioner
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&practitioner); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("find practitioner: %w", err)
	}
	return &practitioner, nil
}

func (r *PractitionerRepository) Create(ctx context.Context, practitioner *domain.Practitioner) (*domain.Practitioner, error) {
	if practitioner.ID == "" {
		practitioner.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, practitioner); err != nil {
		return nil, fmt.Errorf("insert practitioner: %w", err)
	}
	return practitioner, nil
}

func (r *PractitionerRepository) Update(ctx context.Context, practitioner *domain.Practitioner) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": practitioner.ID}, practitioner)
	if err != nil {
		return fmt.Errorf("update practitioner: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPractitionerNotFound
	}
	return nil
}

func (r *PractitionerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete practitioner: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPractitionerNotFound
	}
	return nil
}

func (r *PractitionerRepository) CountByStatus(ctx context.Context, status domain.PersonStatus) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("count practitioners: %w", err)
	}
	return n, nil
}
