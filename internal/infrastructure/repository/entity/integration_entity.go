package entity

import (
	"gateway-core/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoCredentialDoc is one encrypted credential entry.
type MongoCredentialDoc struct {
	Name  string `bson:"name"`
	Value string `bson:"value"`
}

// MongoIntegrationDoc represents an integration record in MongoDB. The
// salt_key field carries the record's base64-encoded envelope key.
type MongoIntegrationDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	IntegrationID string               `bson:"integration_id"`
	ProviderCode  string               `bson:"provider_code"`
	ProviderName  string               `bson:"provider_name"`
	ConfigData    map[string]any       `bson:"config_data"`
	Credentials   []MongoCredentialDoc `bson:"credentials"`
	SaltKey       string               `bson:"salt_key"`
	Status        string               `bson:"status"`
	CreatedAt     int64                `bson:"created_at"`
	UpdatedAt     int64                `bson:"updated_at"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoIntegrationDoc) ToDomain() *domain.Integration {
	credentials := make([]domain.Credential, len(d.Credentials))
	for i, credential := range d.Credentials {
		credentials[i] = domain.Credential{Name: credential.Name, Value: credential.Value}
	}
	return &domain.Integration{
		IntegrationID: d.IntegrationID,
		ProviderCode:  d.ProviderCode,
		ProviderName:  d.ProviderName,
		ConfigData:    d.ConfigData,
		Credentials:   credentials,
		EnvelopeKey:   d.SaltKey,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoIntegrationDocFromDomain converts a domain entity to a MongoDB document.
func MongoIntegrationDocFromDomain(integration *domain.Integration) *MongoIntegrationDoc {
	credentials := make([]MongoCredentialDoc, len(integration.Credentials))
	for i, credential := range integration.Credentials {
		credentials[i] = MongoCredentialDoc{Name: credential.Name, Value: credential.Value}
	}
	return &MongoIntegrationDoc{
		IntegrationID: integration.IntegrationID,
		ProviderCode:  integration.ProviderCode,
		ProviderName:  integration.ProviderName,
		ConfigData:    integration.ConfigData,
		Credentials:   credentials,
		SaltKey:       integration.EnvelopeKey,
		Status:        integration.Status,
		CreatedAt:     integration.CreatedAt,
		UpdatedAt:     integration.UpdatedAt,
	}
}
