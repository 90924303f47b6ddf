package application

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"gateway-core/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func newRegistryFixture(t *testing.T) (*RegistryService, *fakeAPIKeyRepo, *fakeGroupRepo) {
	t.Helper()
	apiKeys := newFakeAPIKeyRepo()
	groups := newFakeGroupRepo()
	return NewRegistryService(apiKeys, groups, zerolog.Nop()), apiKeys, groups
}

func TestCreateAPIKeyGeneratesOpaqueToken(t *testing.T) {
	svc, apiKeys, _ := newRegistryFixture(t)

	token, err := svc.CreateAPIKey(context.Background(), "svc1", []string{"g1"})
	require.NoError(t, err)
	assert.Regexp(t, hexToken, token, "token must be 64 hex characters")

	record, err := apiKeys.GetByKey(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "svc1", record.Name)
	assert.Equal(t, domain.StatusActive, record.Status)
	assert.Empty(t, record.LastUsed)
	assert.NotZero(t, record.CreatedAt)
}

func TestCreateAPIKeyTokensAreUnique(t *testing.T) {
	svc, _, _ := newRegistryFixture(t)

	first, err := svc.CreateAPIKey(context.Background(), "one", nil)
	require.NoError(t, err)
	second, err := svc.CreateAPIKey(context.Background(), "two", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCreateAPIKeyDuplicateNameConflicts(t *testing.T) {
	svc, _, _ := newRegistryFixture(t)

	_, err := svc.CreateAPIKey(context.Background(), "svc1", nil)
	require.NoError(t, err)

	_, err = svc.CreateAPIKey(context.Background(), "svc1", nil)
	gwErr := domain.AsGatewayError(err)
	require.NotNil(t, gwErr)
	assert.Equal(t, http.StatusConflict, gwErr.Status)
	assert.Equal(t, domain.MsgDuplicateAPIKeyName.Code, gwErr.Code)
}

func TestCreateAPIKeyStoreFailureIsInternalError(t *testing.T) {
	svc, apiKeys, _ := newRegistryFixture(t)
	apiKeys.failCreate = errors.New("socket closed")

	_, err := svc.CreateAPIKey(context.Background(), "svc1", nil)

	gwErr := domain.AsGatewayError(err)
	require.NotNil(t, gwErr)
	assert.Equal(t, http.StatusInternalServerError, gwErr.Status)
	assert.Equal(t, domain.MsgFailedToCreateAPIKey.Code, gwErr.Code)
	assert.NotContains(t, gwErr.Render(), "socket closed")
}

func TestCreateGroupDuplicateLeavesFirstIntact(t *testing.T) {
	svc, _, groups := newRegistryFixture(t)

	require.NoError(t, svc.CreateGroup(context.Background(), "g1", []string{"integrations"}))

	err := svc.CreateGroup(context.Background(), "g1", []string{"other"})
	gwErr := domain.AsGatewayError(err)
	require.NotNil(t, gwErr)
	assert.Equal(t, http.StatusConflict, gwErr.Status)
	assert.Equal(t, domain.MsgDuplicateGroupName.Code, gwErr.Code)

	assert.Equal(t, 1, groups.count(), "failed create must not change the collection")
	stored, err := groups.FindByNames(context.Background(), []string{"g1"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"integrations"}, stored[0].AssociatedApps)
}

func TestListGroupsSortedByName(t *testing.T) {
	svc, _, _ := newRegistryFixture(t)
	require.NoError(t, svc.CreateGroup(context.Background(), "zeta", nil))
	require.NoError(t, svc.CreateGroup(context.Background(), "alpha", nil))
	require.NoError(t, svc.CreateGroup(context.Background(), "mid", nil))

	groups, err := svc.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "alpha", groups[0].Name)
	assert.Equal(t, "mid", groups[1].Name)
	assert.Equal(t, "zeta", groups[2].Name)
}

func TestUpdateAPIKeySparsePatch(t *testing.T) {
	svc, apiKeys, _ := newRegistryFixture(t)
	token, err := svc.CreateAPIKey(context.Background(), "svc1", []string{"g1"})
	require.NoError(t, err)

	inactive := domain.StatusInactive
	require.NoError(t, svc.UpdateAPIKey(context.Background(), token, domain.APIKeyPatch{Status: &inactive}))

	record, err := apiKeys.GetByKey(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, record.Status)
	assert.Equal(t, "svc1", record.Name, "absent patch fields stay untouched")
	assert.Equal(t, []string{"g1"}, record.AssociatedGroups)
	assert.Empty(t, record.LastUsed)
}

func TestUpdateAPIKeyEmptyFieldsTreatedAsAbsent(t *testing.T) {
	svc, apiKeys, _ := newRegistryFixture(t)
	token, err := svc.CreateAPIKey(context.Background(), "svc1", []string{"g1"})
	require.NoError(t, err)

	empty := ""
	patch := domain.APIKeyPatch{
		Name:             &empty,
		Status:           &empty,
		AssociatedGroups: []string{},
	}
	require.NoError(t, svc.UpdateAPIKey(context.Background(), token, patch))

	record, err := apiKeys.GetByKey(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "svc1", record.Name)
	assert.Equal(t, domain.StatusActive, record.Status)
	assert.Equal(t, []string{"g1"}, record.AssociatedGroups, "an empty group list must not clear the groups")
}

func TestUpdateAPIKeyRenameConflict(t *testing.T) {
	svc, apiKeys, _ := newRegistryFixture(t)
	_, err := svc.CreateAPIKey(context.Background(), "svc1", nil)
	require.NoError(t, err)
	token, err := svc.CreateAPIKey(context.Background(), "svc2", nil)
	require.NoError(t, err)

	taken := "svc1"
	err = svc.UpdateAPIKey(context.Background(), token, domain.APIKeyPatch{Name: &taken})

	gwErr := domain.AsGatewayError(err)
	require.NotNil(t, gwErr)
	assert.Equal(t, http.StatusConflict, gwErr.Status)
	assert.Equal(t, domain.MsgDuplicateAPIKeyName.Code, gwErr.Code)

	record, err := apiKeys.GetByKey(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "svc2", record.Name, "the losing rename leaves the record unchanged")
}

func TestUpdateAPIKeyStoreFailure(t *testing.T) {
	svc, apiKeys, _ := newRegistryFixture(t)
	apiKeys.failUpdate = errors.New("boom")

	err := svc.UpdateAPIKey(context.Background(), "whatever", domain.APIKeyPatch{TouchLastUsed: true})

	gwErr := domain.AsGatewayError(err)
	require.NotNil(t, gwErr)
	assert.Equal(t, http.StatusInternalServerError, gwErr.Status)
	assert.Equal(t, domain.MsgFailedToUpdateAPIKey.Code, gwErr.Code)
}
