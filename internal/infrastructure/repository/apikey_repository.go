package repository

import (
	"context"
	"fmt"
	"time"

	"gateway-core/internal/domain"
	"gateway-core/internal/infrastructure/repository/entity"
	"gateway-core/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAPIKeyRepository implements APIKeyRepository using MongoDB.
type MongoAPIKeyRepository struct {
	collection *mongo.Collection
}

// NewMongoAPIKeyRepository creates a new MongoDB API key repository.
func NewMongoAPIKeyRepository(db *mongo.Database, collectionName string) ports.APIKeyRepository {
	return &MongoAPIKeyRepository{
		collection: db.Collection(collectionName),
	}
}

// Create inserts a new API key record. The unique indexes on name and
// api_key are ensured idempotently before the write; uniqueness itself is
// enforced by the store's atomic constraint, not by a read-then-write check.
func (r *MongoAPIKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("apikey_name_index").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "api_key", Value: 1}},
			Options: options.Index().SetName("apikey_api_keys_index").SetUnique(true),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to ensure api key indexes: %w", err)
	}

	_, err := r.collection.InsertOne(ctx, entity.MongoAPIKeyDocFromDomain(key))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("api key insert: %w", ports.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}

	return nil
}

// GetByKey retrieves an API key record by exact token match.
func (r *MongoAPIKeyRepository) GetByKey(ctx context.Context, apiKey string) (*domain.APIKey, error) {
	var doc entity.MongoAPIKeyDoc
	filter := bson.M{"api_key": apiKey}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	return doc.ToDomain(), nil
}

// Update applies a sparse patch to the record matching apiKey. Only fields
// present in the patch end up in the $set document.
func (r *MongoAPIKeyRepository) Update(ctx context.Context, apiKey string, patch domain.APIKeyPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.AssociatedGroups != nil {
		set["associated_groups"] = patch.AssociatedGroups
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.TouchLastUsed {
		set["last_used"] = time.Now().UTC().Format(time.RFC3339)
	}
	if len(set) == 0 {
		return nil
	}

	filter := bson.M{"api_key": apiKey}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("api key update: %w", ports.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update api key: %w", err)
	}

	return nil
}
