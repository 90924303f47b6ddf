package application

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"gateway-core/internal/domain"
	"gateway-core/internal/ports"

	"github.com/rs/zerolog"
)

// AuthorizationService validates caller API keys against the store and
// enforces per-route permissions resolved through groups.
type AuthorizationService struct {
	apiKeys ports.APIKeyRepository
	groups  ports.GroupRepository
	logger  zerolog.Logger
}

// NewAuthorizationService creates the access-control gate.
func NewAuthorizationService(
	apiKeys ports.APIKeyRepository,
	groups ports.GroupRepository,
	logger zerolog.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		apiKeys: apiKeys,
		groups:  groups,
		logger:  logger,
	}
}

// Authorize checks the caller's key against routeName. The empty-key check
// runs before any store access. On success it records last_used best-effort
// and returns the caller identity with the resolved apps.
func (s *AuthorizationService) Authorize(ctx context.Context, apiKey, routeName string) (*domain.AuthResult, error) {
	if apiKey == "" {
		return nil, domain.NewGatewayError(domain.MsgEmptyAPIKey, http.StatusBadRequest)
	}

	record, err := s.apiKeys.GetByKey(ctx, apiKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to get api key details")
		return nil, domain.InternalError(domain.MsgFailedToGetAPIKey)
	}
	if record == nil {
		return nil, domain.NewGatewayError(domain.MsgInvalidAPIKey, http.StatusNotFound)
	}

	apps, err := s.ResolveApps(ctx, record.AssociatedGroups)
	if err != nil {
		return nil, err
	}

	if !appsAllow(apps, routeName) {
		return nil, domain.NewGatewayError(domain.MsgForbiddenAccess, http.StatusForbidden)
	}

	// Best-effort: an allowed call stays allowed even if the touch fails.
	s.touchLastUsed(ctx, apiKey)

	return &domain.AuthResult{Identifier: record.Name, Apps: apps}, nil
}

// ResolveApps returns the deduplicated union of the apps granted by the
// given groups. Unknown names contribute nothing; an empty input resolves
// to an empty set.
func (s *AuthorizationService) ResolveApps(ctx context.Context, groupNames []string) ([]string, error) {
	if len(groupNames) == 0 {
		return nil, nil
	}

	groups, err := s.groups.FindByNames(ctx, groupNames)
	if err != nil {
		s.logger.Error().Err(err).Strs("groups", groupNames).Msg("Failed to get associated apps")
		return nil, domain.InternalError(domain.MsgFailedToGetApps)
	}

	seen := make(map[string]struct{})
	var apps []string
	for _, group := range groups {
		for _, app := range group.AssociatedApps {
			if _, ok := seen[app]; ok {
				continue
			}
			seen[app] = struct{}{}
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func appsAllow(apps []string, routeName string) bool {
	for _, app := range apps {
		if app == domain.WildcardApp || app == routeName {
			return true
		}
	}
	return false
}

func (s *AuthorizationService) touchLastUsed(ctx context.Context, apiKey string) {
	patch := domain.APIKeyPatch{TouchLastUsed: true}
	if err := s.apiKeys.Update(ctx, apiKey, patch); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record api key last_used")
	}
}

// InternalAuthService protects service-to-service administration endpoints
// with a single pre-shared secret. No group or route logic applies.
type InternalAuthService struct {
	token  string
	logger zerolog.Logger
}

// NewInternalAuthService decodes the base64-encoded service token once at
// construction time.
func NewInternalAuthService(encodedToken string, logger zerolog.Logger) (*InternalAuthService, error) {
	token, err := base64.StdEncoding.DecodeString(encodedToken)
	if err != nil {
		return nil, fmt.Errorf("invalid service token encoding: %w", err)
	}
	return &InternalAuthService{token: string(token), logger: logger}, nil
}

// Authorize compares the caller's key against the service token by exact
// equality. Missing key is a 400, mismatch a 401.
func (s *InternalAuthService) Authorize(apiKey string) error {
	if apiKey == "" {
		return domain.NewGatewayError(domain.MsgEmptyAPIKey, http.StatusBadRequest)
	}
	if apiKey != s.token {
		return domain.NewGatewayError(domain.MsgInvalidAPIKey, http.StatusUnauthorized)
	}
	return nil
}
