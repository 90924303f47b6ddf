package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"gateway-core/internal/ports"
)

const keySize = 32 // AES-256

// Service implements ports.CredentialCipher with AES-256-GCM. Each
// integration record gets its own key; the key is persisted next to the
// ciphertext it protects, which is a documented limitation of the design
// (there is no key-encryption key or KMS layer).
type Service struct{}

// NewService creates the credential cipher.
func NewService() *Service {
	return &Service{}
}

var _ ports.CredentialCipher = (*Service)(nil)

// GenerateKey returns a fresh random 256-bit key, base64 encoded.
func (s *Service) GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate envelope key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt encrypts plaintext under the base64-encoded key and returns a
// base64 string carrying nonce||ciphertext.
func (s *Service) Encrypt(encodedKey, plaintext string) (string, error) {
	gcm, err := s.aead(encodedKey)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (s *Service) Decrypt(encodedKey, ciphertext string) (string, error) {
	gcm, err := s.aead(encodedKey)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return string(plaintext), nil
}

func (s *Service) aead(encodedKey string) (cipher.AEAD, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid envelope key encoding: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("envelope key must be %d bytes, got %d", keySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
