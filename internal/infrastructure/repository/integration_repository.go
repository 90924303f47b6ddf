package repository

import (
	"context"
	"fmt"

	"gateway-core/internal/domain"
	"gateway-core/internal/infrastructure/repository/entity"
	"gateway-core/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIntegrationRepository implements IntegrationRepository using MongoDB.
// One instance serves one collection; the main collection enforces a unique
// provider_code index while the sandbox collection deliberately does not, so
// sandbox records may share a provider code.
type MongoIntegrationRepository struct {
	collection         *mongo.Collection
	uniqueProviderCode bool
}

// NewMongoIntegrationRepository creates a MongoDB integration repository for
// the named collection.
func NewMongoIntegrationRepository(db *mongo.Database, collectionName string, uniqueProviderCode bool) ports.IntegrationRepository {
	return &MongoIntegrationRepository{
		collection:         db.Collection(collectionName),
		uniqueProviderCode: uniqueProviderCode,
	}
}

// Create inserts a new integration record, ensuring the collection's indexes
// first: integration_id always unique, provider_code unique per policy.
func (r *MongoIntegrationRepository) Create(ctx context.Context, integration *domain.Integration) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "integration_id", Value: 1}},
			Options: options.Index().SetName("integration_id_index").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "provider_code", Value: 1}},
			Options: options.Index().SetName("integration_provider_index").SetUnique(r.uniqueProviderCode),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to ensure integration indexes: %w", err)
	}

	_, err := r.collection.InsertOne(ctx, entity.MongoIntegrationDocFromDomain(integration))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("integration insert: %w", ports.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create integration: %w", err)
	}

	return nil
}

// GetByProviderCode retrieves an integration by provider code.
func (r *MongoIntegrationRepository) GetByProviderCode(ctx context.Context, providerCode string) (*domain.Integration, error) {
	var doc entity.MongoIntegrationDoc
	filter := bson.M{"provider_code": providerCode}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return doc.ToDomain(), nil
}

// Update applies the sparse update to the record matching providerCode.
func (r *MongoIntegrationRepository) Update(ctx context.Context, providerCode string, update ports.IntegrationUpdate) error {
	set := bson.M{"updated_at": update.UpdatedAt}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.ConfigData != nil {
		set["config_data"] = update.ConfigData
	}
	if update.Credentials != nil {
		credentials := make([]entity.MongoCredentialDoc, len(update.Credentials))
		for i, credential := range update.Credentials {
			credentials[i] = entity.MongoCredentialDoc{Name: credential.Name, Value: credential.Value}
		}
		set["credentials"] = credentials
	}
	if update.EnvelopeKey != nil {
		set["salt_key"] = *update.EnvelopeKey
	}

	filter := bson.M{"provider_code": providerCode}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update integration: %w", err)
	}

	return nil
}

// Delete removes the record matching providerCode.
func (r *MongoIntegrationRepository) Delete(ctx context.Context, providerCode string) error {
	filter := bson.M{"provider_code": providerCode}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("integration delete: %w", ports.ErrNotFound)
	}
	return nil
}
