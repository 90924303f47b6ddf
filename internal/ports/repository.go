package ports

import (
	"context"
	"errors"

	"gateway-core/internal/domain"
)

// ErrDuplicateKey reports a store-level uniqueness violation. Repositories
// must return it (wrapped or bare) whenever an insert or update loses a race
// on a unique index, so services can translate it to a domain conflict.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrNotFound reports that no document matched the filter.
var ErrNotFound = errors.New("not found")

// APIKeyRepository persists API key records.
type APIKeyRepository interface {
	// Create inserts a new key after idempotently ensuring the unique
	// indexes on name and api_key.
	Create(ctx context.Context, key *domain.APIKey) error

	// GetByKey retrieves a record by exact token match. Returns (nil, nil)
	// when no record exists.
	GetByKey(ctx context.Context, apiKey string) (*domain.APIKey, error)

	// Update applies a sparse patch to the record matching apiKey.
	Update(ctx context.Context, apiKey string, patch domain.APIKeyPatch) error
}

// GroupRepository persists permission groups.
type GroupRepository interface {
	// Create inserts a new group after ensuring the unique name index.
	Create(ctx context.Context, group *domain.Group) error

	// FindByNames returns the groups whose name is in names, sorted by name.
	FindByNames(ctx context.Context, names []string) ([]*domain.Group, error)

	// List returns all groups sorted by name.
	List(ctx context.Context) ([]*domain.Group, error)
}

// IntegrationRepository persists integration records for one collection.
// The main and sandbox collections get separate instances; only the main
// instance enforces provider_code uniqueness.
type IntegrationRepository interface {
	Create(ctx context.Context, integration *domain.Integration) error

	// GetByProviderCode returns (nil, nil) when no record exists.
	GetByProviderCode(ctx context.Context, providerCode string) (*domain.Integration, error)

	Update(ctx context.Context, providerCode string, update IntegrationUpdate) error

	// Delete removes the record, returning ErrNotFound when nothing matched.
	Delete(ctx context.Context, providerCode string) error
}

// IntegrationUpdate is the write-side sparse update for an integration.
// Nil fields are left untouched; Credentials and EnvelopeKey travel together
// because the credential list is only ever replaced under a fresh key.
type IntegrationUpdate struct {
	Status      *string
	ConfigData  map[string]any
	Credentials []domain.Credential
	EnvelopeKey *string
	UpdatedAt   int64
}
