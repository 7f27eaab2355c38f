package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

const therapySessionCollection = "therapy_sessions"

type TherapySessionRepository struct {
	coll *mongo.Collection
}

func NewTherapySessionRepository(db *mongo.Database) *TherapySessionRepository {
	return &TherapySessionRepository{coll: db.Collection(therapySessionCollection)}
}

func (r *TherapySessionRepository) List(ctx context.Context) ([]domain.TherapySession, error) {
	return r.find(ctx, bson.M{})
}

func (r *TherapySessionRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.TherapySession, error) {
	return r.find(ctx, bson.M{"patient_id": patientID})
}

func (r *TherapySessionRepository) find(ctx context.Context, filter bson.M) ([]domain.TherapySession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "held_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find therapy sessions: %w", err)
	}
	defer cur.Close(ctx)

	var sessions []domain.TherapySession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode therapy sessions: %w", err)
	}
	return sessions, nil
}

func (r *TherapySessionRepository) Insert(ctx context.Context, session *domain.TherapySession) (*domain.TherapySession, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return nil, fmt.Errorf("insert therapy session: %w", err)
	}
	return session, nil
}

func (r *TherapySessionRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count therapy sessions: %w", err)
	}
	return n, nil
}
