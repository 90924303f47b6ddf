package application

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gateway-core/internal/domain"
	"gateway-core/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegistryService manages API keys and permission groups.
type RegistryService struct {
	apiKeys ports.APIKeyRepository
	groups  ports.GroupRepository
	logger  zerolog.Logger
}

// NewRegistryService creates the key and group registry.
func NewRegistryService(
	apiKeys ports.APIKeyRepository,
	groups ports.GroupRepository,
	logger zerolog.Logger,
) *RegistryService {
	return &RegistryService{
		apiKeys: apiKeys,
		groups:  groups,
		logger:  logger,
	}
}

// CreateAPIKey generates a fresh opaque token, persists it with status
// ACTIVE and returns the token. Name uniqueness is enforced by the store's
// index; the losing side of a race gets the conflict, never a generic error.
func (s *RegistryService) CreateAPIKey(ctx context.Context, name string, associatedGroups []string) (string, error) {
	record := &domain.APIKey{
		Key:              newAPIKeyToken(),
		Name:             name,
		AssociatedGroups: associatedGroups,
		Status:           domain.StatusActive,
		CreatedAt:        time.Now().Unix(),
		LastUsed:         "",
	}

	if err := s.apiKeys.Create(ctx, record); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return "", domain.NewGatewayError(domain.MsgDuplicateAPIKeyName, http.StatusConflict)
		}
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to create API key")
		return "", domain.InternalError(domain.MsgFailedToCreateAPIKey)
	}

	s.logger.Info().Str("name", name).Msg("API key created")
	return record.Key, nil
}

// UpdateAPIKey applies a sparse patch to the key record. Absent and empty
// fields are left untouched. A rename onto an existing name loses to the
// unique index and conflicts.
func (s *RegistryService) UpdateAPIKey(ctx context.Context, apiKey string, patch domain.APIKeyPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		patch.Name = nil
	}
	if patch.Status != nil && *patch.Status == "" {
		patch.Status = nil
	}
	if len(patch.AssociatedGroups) == 0 {
		patch.AssociatedGroups = nil
	}

	if err := s.apiKeys.Update(ctx, apiKey, patch); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return domain.NewGatewayError(domain.MsgDuplicateAPIKeyName, http.StatusConflict)
		}
		s.logger.Error().Err(err).Msg("Failed to update api key")
		return domain.InternalError(domain.MsgFailedToUpdateAPIKey)
	}
	return nil
}

// CreateGroup persists a new permission group with status ACTIVE.
func (s *RegistryService) CreateGroup(ctx context.Context, name string, associatedApps []string) error {
	group := &domain.Group{
		Name:           name,
		AssociatedApps: associatedApps,
		Status:         domain.StatusActive,
		CreatedAt:      time.Now().Unix(),
	}

	if err := s.groups.Create(ctx, group); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return domain.NewGatewayError(domain.MsgDuplicateGroupName, http.StatusConflict)
		}
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to create group")
		return domain.InternalError(domain.MsgFailedToCreateGroup)
	}

	s.logger.Info().Str("name", name).Msg("Group created")
	return nil
}

// ListGroups returns all groups sorted by name.
func (s *RegistryService) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to get group list")
		return nil, domain.InternalError(domain.MsgFailedToGetGroups)
	}
	return groups, nil
}

// newAPIKeyToken concatenates two independent random UUIDs rendered as hex,
// hyphens stripped: 64 hex characters, enough to resist enumeration.
func newAPIKeyToken() string {
	token := uuid.New().String() + uuid.New().String()
	return strings.ReplaceAll(token, "-", "")
}
