package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gateway-core/internal/domain"
	"gateway-core/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VaultService owns the integration credential contract: encrypt on write,
// decrypt only on the internal use path, mask on every display path. The
// main and sandbox collections share the logic but differ in provider_code
// uniqueness, which the repositories enforce.
type VaultService struct {
	main    ports.IntegrationRepository
	sandbox ports.IntegrationRepository
	cipher  ports.CredentialCipher
	logger  zerolog.Logger
}

// NewVaultService creates the credential vault.
func NewVaultService(
	main ports.IntegrationRepository,
	sandbox ports.IntegrationRepository,
	cipher ports.CredentialCipher,
	logger zerolog.Logger,
) *VaultService {
	return &VaultService{
		main:    main,
		sandbox: sandbox,
		cipher:  cipher,
		logger:  logger,
	}
}

// CreateIntegrationInput carries the plaintext credential set supplied by
// the caller; values are encrypted before anything is persisted.
type CreateIntegrationInput struct {
	ProviderCode string
	ProviderName string
	ConfigData   map[string]any
	Credentials  []domain.Credential
}

// CreateIntegration generates a fresh envelope key for the record, encrypts
// every credential value under it and persists the result. Returns the new
// integration id.
func (s *VaultService) CreateIntegration(ctx context.Context, sandbox bool, input CreateIntegrationInput) (string, error) {
	envelopeKey, err := s.cipher.GenerateKey()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate envelope key")
		return "", domain.InternalError(domain.MsgFailedToCreateIntegr)
	}

	encrypted, err := s.encryptAll(envelopeKey, input.Credentials)
	if err != nil {
		s.logger.Error().Err(err).Str("provider_code", input.ProviderCode).Msg("Failed to encrypt credentials")
		return "", domain.InternalError(domain.MsgFailedToCreateIntegr)
	}

	now := time.Now().Unix()
	integration := &domain.Integration{
		IntegrationID: uuid.NewString(),
		ProviderCode:  input.ProviderCode,
		ProviderName:  input.ProviderName,
		ConfigData:    input.ConfigData,
		Credentials:   encrypted,
		EnvelopeKey:   envelopeKey,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo(sandbox).Create(ctx, integration); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return "", domain.NewGatewayError(domain.MsgDuplicateProviderCode, http.StatusConflict)
		}
		s.logger.Error().Err(err).Str("provider_code", input.ProviderCode).Msg("Failed to create integration")
		return "", domain.InternalError(domain.MsgFailedToCreateIntegr)
	}

	s.logger.Info().
		Str("provider_code", input.ProviderCode).
		Str("integration_id", integration.IntegrationID).
		Bool("sandbox", sandbox).
		Msg("Integration created")

	return integration.IntegrationID, nil
}

// GetIntegration returns the record for display: the envelope key is
// withheld and every credential value is replaced by the mask token. Names
// and ordering are preserved; nothing is decrypted on this path.
func (s *VaultService) GetIntegration(ctx context.Context, providerCode string, sandbox bool) (*domain.Integration, error) {
	record, err := s.fetch(ctx, providerCode, sandbox)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.NewGatewayError(domain.MsgProviderNotFound, http.StatusNotFound)
	}

	masked := make([]domain.Credential, len(record.Credentials))
	for i, credential := range record.Credentials {
		masked[i] = domain.Credential{Name: credential.Name, Value: domain.MaskToken}
	}
	record.Credentials = masked
	record.EnvelopeKey = ""

	return record, nil
}

// UseIntegrationCredentials decrypts the record's credential set for trusted
// internal callers and returns it with the config data and integration id.
// Never expose the result on an external response body.
func (s *VaultService) UseIntegrationCredentials(ctx context.Context, providerCode string, sandbox bool) (*domain.CredentialContext, error) {
	record, err := s.fetch(ctx, providerCode, sandbox)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.NewGatewayError(domain.MsgIntegrationNotFound, http.StatusBadRequest)
	}

	credentials := make([]domain.Credential, len(record.Credentials))
	for i, credential := range record.Credentials {
		plaintext, err := s.cipher.Decrypt(record.EnvelopeKey, credential.Value)
		if err != nil {
			s.logger.Error().Err(err).
				Str("provider_code", providerCode).
				Str("credential", credential.Name).
				Msg("Failed to decrypt credential")
			return nil, domain.InternalError(domain.MsgFailedToDecryptSecrets)
		}
		credentials[i] = domain.Credential{Name: credential.Name, Value: plaintext}
	}

	return &domain.CredentialContext{
		IntegrationID: record.IntegrationID,
		ConfigData:    record.ConfigData,
		Credentials:   credentials,
	}, nil
}

// UpdateIntegration applies a sparse patch after confirming the record
// exists. Empty patch values (empty status, empty config map, empty
// credential list) are treated as absent. A patch carrying credentials
// generates a new envelope key and replaces the stored credential list
// wholesale: credentials absent from the patch become unrecoverable, since
// the old key is discarded with them.
func (s *VaultService) UpdateIntegration(ctx context.Context, providerCode string, sandbox bool, patch domain.IntegrationPatch) error {
	record, err := s.fetch(ctx, providerCode, sandbox)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.NewGatewayError(domain.MsgProviderNotFound, http.StatusNotFound)
	}

	update := ports.IntegrationUpdate{
		UpdatedAt: time.Now().Unix(),
	}
	if patch.Status != nil && *patch.Status != "" {
		update.Status = patch.Status
	}
	if len(patch.ConfigData) > 0 {
		update.ConfigData = patch.ConfigData
	}

	if len(patch.Credentials) > 0 {
		envelopeKey, err := s.cipher.GenerateKey()
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to generate envelope key")
			return domain.InternalError(domain.MsgFailedToUpdateIntegr)
		}
		encrypted, err := s.encryptAll(envelopeKey, patch.Credentials)
		if err != nil {
			s.logger.Error().Err(err).Str("provider_code", providerCode).Msg("Failed to encrypt credentials")
			return domain.InternalError(domain.MsgFailedToUpdateIntegr)
		}
		update.Credentials = encrypted
		update.EnvelopeKey = &envelopeKey
	}

	if err := s.repo(sandbox).Update(ctx, providerCode, update); err != nil {
		s.logger.Error().Err(err).Str("provider_code", providerCode).Msg("Failed to update integration")
		return domain.InternalError(domain.MsgFailedToUpdateIntegr)
	}

	s.logger.Info().Str("provider_code", providerCode).Bool("sandbox", sandbox).Msg("Integration updated")
	return nil
}

// DeleteIntegration hard-deletes the record after an existence check.
func (s *VaultService) DeleteIntegration(ctx context.Context, providerCode string, sandbox bool) error {
	record, err := s.fetch(ctx, providerCode, sandbox)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.NewGatewayError(domain.MsgProviderNotFound, http.StatusNotFound)
	}

	if err := s.repo(sandbox).Delete(ctx, providerCode); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.NewGatewayError(domain.MsgProviderNotFound, http.StatusNotFound)
		}
		s.logger.Error().Err(err).Str("provider_code", providerCode).Msg("Failed to delete integration")
		return domain.InternalError(domain.MsgFailedToDeleteIntegr)
	}

	s.logger.Info().Str("provider_code", providerCode).Bool("sandbox", sandbox).Msg("Integration deleted")
	return nil
}

func (s *VaultService) repo(sandbox bool) ports.IntegrationRepository {
	if sandbox {
		return s.sandbox
	}
	return s.main
}

func (s *VaultService) fetch(ctx context.Context, providerCode string, sandbox bool) (*domain.Integration, error) {
	record, err := s.repo(sandbox).GetByProviderCode(ctx, providerCode)
	if err != nil {
		s.logger.Error().Err(err).Str("provider_code", providerCode).Msg("Failed to get integration")
		return nil, domain.InternalError(domain.MsgFailedToGetIntegr)
	}
	return record, nil
}

func (s *VaultService) encryptAll(envelopeKey string, credentials []domain.Credential) ([]domain.Credential, error) {
	encrypted := make([]domain.Credential, len(credentials))
	for i, credential := range credentials {
		ciphertext, err := s.cipher.Encrypt(envelopeKey, credential.Value)
		if err != nil {
			return nil, err
		}
		encrypted[i] = domain.Credential{Name: credential.Name, Value: ciphertext}
	}
	return encrypted, nil
}
