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

// MongoGroupRepository implements GroupRepository using MongoDB.
type MongoGroupRepository struct {
	collection *mongo.Collection
}

// NewMongoGroupRepository creates a new MongoDB group repository.
func NewMongoGroupRepository(db *mongo.Database, collectionName string) ports.GroupRepository {
	return &MongoGroupRepository{
		collection: db.Collection(collectionName),
	}
}

// Create inserts a new group after ensuring the unique name index.
func (r *MongoGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("group_name_index").SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to ensure group index: %w", err)
	}

	_, err := r.collection.InsertOne(ctx, entity.MongoGroupDocFromDomain(group))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("group insert: %w", ports.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// FindByNames returns the groups whose name is in names, sorted by name
// under the en collation for a deterministic, case-insensitive ordering.
func (r *MongoGroupRepository) FindByNames(ctx context.Context, names []string) ([]*domain.Group, error) {
	filter := bson.M{"name": bson.M{"$in": names}}
	return r.find(ctx, filter)
}

// List returns all groups sorted by name.
func (r *MongoGroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoGroupRepository) find(ctx context.Context, filter bson.M) ([]*domain.Group, error) {
	opts := options.Find().
		SetCollation(&options.Collation{Locale: "en"}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []*domain.Group
	for cursor.Next(ctx) {
		var doc entity.MongoGroupDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode group: %w", err)
		}
		groups = append(groups, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return groups, nil
}
