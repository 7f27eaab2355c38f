package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

const identityCollection = "identities"

// identityDoc is the persisted shape of a directory entry. Unlike the demo
// directory, each identity carries its own bcrypt hash.
type identityDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Role         string `bson:"role"`
	Avatar       string `bson:"avatar,omitempty"`
	PasswordHash string `bson:"password_hash"`
}

// DirectoryRepository is the production identity directory. It satisfies
// ports.Directory with per-identity bcrypt verification.
type DirectoryRepository struct {
	coll *mongo.Collection
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{coll: db.Collection(identityCollection)}
}

// Authenticate finds the identity by exact email and verifies the password
// hash. Every failure collapses to domain.ErrInvalidCredentials so callers
// cannot probe for known emails.
func (r *DirectoryRepository) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	var doc identityDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	role, err := domain.ParseRole(doc.Role)
	if err != nil {
		return nil, fmt.Errorf("directory entry %s: %w", doc.ID, err)
	}

	return &domain.Identity{
		ID:          doc.ID,
		DisplayName: doc.Name,
		Email:       doc.Email,
		Role:        role,
		Avatar:      doc.Avatar,
	}, nil
}

// Upsert installs or replaces a directory entry, hashing the password. Used
// by the bootstrap seeding path.
func (r *DirectoryRepository) Upsert(ctx context.Context, identity domain.Identity, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	doc := identityDoc{
		ID:           identity.ID,
		Name:         identity.DisplayName,
		Email:        identity.Email,
		Role:         identity.Role.String(),
		Avatar:       identity.Avatar,
		PasswordHash: string(hash),
	}

	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert identity: %w", err)
	}
	return nil
}
