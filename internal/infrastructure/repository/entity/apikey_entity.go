package entity

import (
	"gateway-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoAPIKeyDoc represents an API key in MongoDB.
type MongoAPIKeyDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Key              string             `bson:"api_key"`
	Name             string             `bson:"name"`
	AssociatedGroups []string           `bson:"associated_groups"`
	Status           string             `bson:"status"`
	CreatedAt        int64              `bson:"created_at"`
	LastUsed         string             `bson:"last_used"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoAPIKeyDoc) ToDomain() *domain.APIKey {
	return &domain.APIKey{
		Key:              d.Key,
		Name:             d.Name,
		AssociatedGroups: d.AssociatedGroups,
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
		LastUsed:         d.LastUsed,
	}
}

// MongoAPIKeyDocFromDomain converts a domain entity to a MongoDB document.
func MongoAPIKeyDocFromDomain(key *domain.APIKey) *MongoAPIKeyDoc {
	return &MongoAPIKeyDoc{
		Key:              key.Key,
		Name:             key.Name,
		AssociatedGroups: key.AssociatedGroups,
		Status:           key.Status,
		CreatedAt:        key.CreatedAt,
		LastUsed:         key.LastUsed,
	}
}
