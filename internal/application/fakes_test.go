package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gateway-core/internal/domain"
	"gateway-core/internal/ports"
)

// In-memory repositories implementing the ports with the store's real
// constraint semantics: uniqueness is checked atomically inside Create, the
// way the unique index behaves, so conflict translation can be exercised.

type fakeAPIKeyRepo struct {
	mu      sync.Mutex
	records map[string]*domain.APIKey // keyed by token

	failGet    error
	failCreate error
	failUpdate error

	getCalls    int
	updateCalls int
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{records: make(map[string]*domain.APIKey)}
}

func (r *fakeAPIKeyRepo) Create(_ context.Context, key *domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, existing := range r.records {
		if existing.Name == key.Name || existing.Key == key.Key {
			return fmt.Errorf("api key insert: %w", ports.ErrDuplicateKey)
		}
	}
	clone := *key
	r.records[key.Key] = &clone
	return nil
}

func (r *fakeAPIKeyRepo) GetByKey(_ context.Context, apiKey string) (*domain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.failGet != nil {
		return nil, r.failGet
	}
	record, ok := r.records[apiKey]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (r *fakeAPIKeyRepo) Update(_ context.Context, apiKey string, patch domain.APIKeyPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.failUpdate != nil {
		return r.failUpdate
	}
	record, ok := r.records[apiKey]
	if !ok {
		return nil
	}
	if patch.Name != nil {
		for token, other := range r.records {
			if token != apiKey && other.Name == *patch.Name {
				return fmt.Errorf("api key update: %w", ports.ErrDuplicateKey)
			}
		}
		record.Name = *patch.Name
	}
	if patch.AssociatedGroups != nil {
		record.AssociatedGroups = patch.AssociatedGroups
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.TouchLastUsed {
		record.LastUsed = time.Now().UTC().Format(time.RFC3339)
	}
	return nil
}

type fakeGroupRepo struct {
	mu      sync.Mutex
	records map[string]*domain.Group

	failCreate error
	failFind   error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{records: make(map[string]*domain.Group)}
}

func (r *fakeGroupRepo) Create(_ context.Context, group *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, exists := r.records[group.Name]; exists {
		return fmt.Errorf("group insert: %w", ports.ErrDuplicateKey)
	}
	clone := *group
	r.records[group.Name] = &clone
	return nil
}

func (r *fakeGroupRepo) FindByNames(_ context.Context, names []string) ([]*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind != nil {
		return nil, r.failFind
	}
	var groups []*domain.Group
	for _, name := range names {
		if group, ok := r.records[name]; ok {
			clone := *group
			groups = append(groups, &clone)
		}
	}
	sortGroups(groups)
	return groups, nil
}

func (r *fakeGroupRepo) List(_ context.Context) ([]*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind != nil {
		return nil, r.failFind
	}
	var groups []*domain.Group
	for _, group := range r.records {
		clone := *group
		groups = append(groups, &clone)
	}
	sortGroups(groups)
	return groups, nil
}

func (r *fakeGroupRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func sortGroups(groups []*domain.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
}

type fakeIntegrationRepo struct {
	mu                 sync.Mutex
	records            []*domain.Integration
	uniqueProviderCode bool

	failGet error
}

func newFakeIntegrationRepo(uniqueProviderCode bool) *fakeIntegrationRepo {
	return &fakeIntegrationRepo{uniqueProviderCode: uniqueProviderCode}
}

func (r *fakeIntegrationRepo) Create(_ context.Context, integration *domain.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uniqueProviderCode {
		for _, existing := range r.records {
			if existing.ProviderCode == integration.ProviderCode {
				return fmt.Errorf("integration insert: %w", ports.ErrDuplicateKey)
			}
		}
	}
	clone := *integration
	r.records = append(r.records, &clone)
	return nil
}

func (r *fakeIntegrationRepo) GetByProviderCode(_ context.Context, providerCode string) (*domain.Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	for _, record := range r.records {
		if record.ProviderCode == providerCode {
			clone := *record
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeIntegrationRepo) Update(_ context.Context, providerCode string, update ports.IntegrationUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.ProviderCode != providerCode {
			continue
		}
		record.UpdatedAt = update.UpdatedAt
		if update.Status != nil {
			record.Status = *update.Status
		}
		if update.ConfigData != nil {
			record.ConfigData = update.ConfigData
		}
		if update.Credentials != nil {
			record.Credentials = update.Credentials
		}
		if update.EnvelopeKey != nil {
			record.EnvelopeKey = *update.EnvelopeKey
		}
		return nil
	}
	return nil
}

func (r *fakeIntegrationRepo) Delete(_ context.Context, providerCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, record := range r.records {
		if record.ProviderCode == providerCode {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("integration delete: %w", ports.ErrNotFound)
}

func (r *fakeIntegrationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *fakeIntegrationRepo) stored(providerCode string) *domain.Integration {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.ProviderCode == providerCode {
			return record
		}
	}
	return nil
}
