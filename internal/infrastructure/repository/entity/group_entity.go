package entity

import (
	"gateway-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoGroupDoc represents a permission group in MongoDB.
type MongoGroupDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	AssociatedApps []string           `bson:"associated_apps"`
	Status         string             `bson:"status"`
	CreatedAt      int64              `bson:"created_at"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoGroupDoc) ToDomain() *domain.Group {
	return &domain.Group{
		Name:           d.Name,
		AssociatedApps: d.AssociatedApps,
		Status:         d.Status,
		CreatedAt:      d.CreatedAt,
	}
}

// MongoGroupDocFromDomain converts a domain entity to a MongoDB document.
func MongoGroupDocFromDomain(group *domain.Group) *MongoGroupDoc {
	return &MongoGroupDoc{
		Name:           group.Name,
		AssociatedApps: group.AssociatedApps,
		Status:         group.Status,
		CreatedAt:      group.CreatedAt,
	}
}
